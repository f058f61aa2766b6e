package provider

import "context"

// Provider 定義 AI 提供者介面
type Provider interface {
	// Complete 送出單輪提示並回傳模型輸出文字
	Complete(ctx context.Context, prompt string) (string, error)

	// Model 目前使用的模型名稱
	Model() string
}
