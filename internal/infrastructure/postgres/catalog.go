package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-cart/internal/core/catalog"

	"github.com/jackc/pgx/v5"
)

const productColumns = `id, name, name_normalized, description, category, tags, image_url, unit, price_per_unit, min_qty, default_qty`

// Catalog 以 products 資料表實作商品目錄
type Catalog struct {
	client *Client
}

// NewCatalog 創建資料庫商品目錄
func NewCatalog(client *Client) *Catalog {
	return &Catalog{client: client}
}

// FindByID 依 ID 查詢商品，不存在時回傳 nil
func (c *Catalog) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	return c.one(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// FindByCanonicalName 依正規化名稱精確查詢
func (c *Catalog) FindByCanonicalName(ctx context.Context, name string) (*catalog.Product, error) {
	return c.one(ctx, `SELECT `+productColumns+` FROM products
		WHERE name_normalized = $1
		ORDER BY id LIMIT 1`, name)
}

// FindBySubstring 依名稱子字串查詢，取排序後第一筆
func (c *Catalog) FindBySubstring(ctx context.Context, name string) (*catalog.Product, error) {
	return c.one(ctx, `SELECT `+productColumns+` FROM products
		WHERE name ILIKE $1
		ORDER BY name_normalized, id LIMIT 1`, "%"+escapeLike(name)+"%")
}

// List 列出全部商品
func (c *Catalog) List(ctx context.Context) ([]catalog.Product, error) {
	return c.many(ctx, `SELECT `+productColumns+` FROM products ORDER BY name_normalized, id`)
}

// Search 依名稱、描述、標籤與分類搜尋
func (c *Catalog) Search(ctx context.Context, q catalog.SearchQuery) ([]catalog.Product, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = catalog.DefaultSearchLimit
	}

	var (
		where []string
		args  []interface{}
	)
	if text := strings.TrimSpace(q.Text); text != "" {
		args = append(args, "%"+escapeLike(text)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR description ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tags) t WHERE t ILIKE $%d))", n, n, n))
	}
	if category := strings.TrimSpace(q.Category); category != "" {
		args = append(args, category)
		where = append(where, fmt.Sprintf("lower(category) = lower($%d)", len(args)))
	}

	sql := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	sql += fmt.Sprintf(` ORDER BY name, id LIMIT $%d`, len(args))

	return c.many(ctx, sql, args...)
}

// Categories 不重複的非空分類，依字母排序
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	rows, err := c.client.query(ctx, `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// Related 同分類的其他商品，依名稱排序
func (c *Catalog) Related(ctx context.Context, category, excludeID string, limit int) ([]catalog.Product, error) {
	if category == "" {
		return []catalog.Product{}, nil
	}
	if limit <= 0 {
		limit = catalog.RelatedLimit
	}
	products, err := c.many(ctx, `SELECT `+productColumns+` FROM products
		WHERE category = $1 AND id <> $2
		ORDER BY name, id LIMIT $3`, category, excludeID, limit)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return products, nil
}

// Upsert 新增或更新商品
func (c *Catalog) Upsert(ctx context.Context, p catalog.Product) error {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := c.client.exec(ctx, `INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			name_normalized = EXCLUDED.name_normalized,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags,
			image_url = EXCLUDED.image_url,
			unit = EXCLUDED.unit,
			price_per_unit = EXCLUDED.price_per_unit,
			min_qty = EXCLUDED.min_qty,
			default_qty = EXCLUDED.default_qty`,
		p.ID, p.Name, p.NormalizedName, p.Description, p.Category, tags, p.ImageURL,
		p.Unit, p.PricePerUnit, p.MinQty, p.DefaultQty,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
	}
	return nil
}

// Seed 目錄為空時寫入初始商品
func (c *Catalog) Seed(ctx context.Context, products []catalog.Product) (int, error) {
	var count int
	if err := c.client.queryRow(ctx, `SELECT count(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	for _, p := range products {
		if err := c.Upsert(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(products), nil
}

func (c *Catalog) one(ctx context.Context, sql string, args ...interface{}) (*catalog.Product, error) {
	p, err := scanProduct(c.client.queryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

func (c *Catalog) many(ctx context.Context, sql string, args ...interface{}) ([]catalog.Product, error) {
	rows, err := c.client.query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (*catalog.Product, error) {
	var p catalog.Product
	if err := row.Scan(
		&p.ID, &p.Name, &p.NormalizedName, &p.Description, &p.Category, &p.Tags,
		&p.ImageURL, &p.Unit, &p.PricePerUnit, &p.MinQty, &p.DefaultQty,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// escapeLike 跳脫 LIKE 萬用字元
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
