// ingredients 命令列工具：向 AI 取得基準份量的食材後換算為指定份量
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"recipe-cart/internal/core/ai/cache"
	"recipe-cart/internal/core/ai/openrouter"
	"recipe-cart/internal/core/ai/service"
	"recipe-cart/internal/core/recipe"
	"recipe-cart/internal/infrastructure/config"
	"recipe-cart/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	fs := flag.NewFlagSet("ingredients", flag.ExitOnError)
	dish := fs.String("dish", "", "dish name")
	servings := fs.Int("servings", 2, "number of servings")
	base := fs.Int("base", 2, "servings the AI is asked for before scaling")
	diet := fs.String("diet", "", "comma separated dietary preferences")
	_ = fs.Parse(os.Args[1:])

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	target := recipe.Request{DishName: *dish, Servings: *servings}
	if *diet != "" {
		for _, d := range strings.Split(*diet, ",") {
			target.DietaryPreferences = append(target.DietaryPreferences, strings.TrimSpace(d))
		}
	}
	if err := target.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	baseReq := target
	baseReq.Servings = *base

	cacheManager := cache.NewManager(cfg.Cache)
	defer cacheManager.Close()

	gen := recipe.NewGenerator(service.NewService(openrouter.NewClient(cfg.OpenRouter), cacheManager))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OpenRouter.Timeout+5*time.Second)
	defer cancel()

	items, err := gen.ScaledIngredients(ctx, baseReq)
	if err != nil {
		common.LogError("食材產生失敗", zap.String("dish", target.DishName), zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Ingredients for %s (%d servings):\n", target.DishName, target.Servings)
	for _, it := range recipe.ScaleIngredients(items, *base, target.Servings) {
		fmt.Printf("- %s: %s\n", it.Name, it.Quantity)
	}
}
