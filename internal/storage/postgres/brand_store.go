// Package postgres provides the Postgres-backed persistence adapter for
// extracted brand profiles.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopsight/insights/internal/insights"
)

// BrandStoreConfig controls the Postgres connection pool.
type BrandStoreConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// txBeginner is the slice of pgxpool.Pool the store depends on, kept
// narrow so tests can substitute a mock pool.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// BrandStore upserts brand profiles into Postgres. Every call fully
// replaces the brand's child collections; persistence is replace-all,
// not an incremental diff.
type BrandStore struct {
	pool txBeginner
}

// NewBrandStore creates a Postgres-backed BrandStore using the provided
// config.
func NewBrandStore(ctx context.Context, cfg BrandStoreConfig) (*BrandStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &BrandStore{pool: pool}, nil
}

// NewBrandStoreWithPool constructs a store from an existing pool
// (primarily for testing).
func NewBrandStoreWithPool(pool txBeginner) (*BrandStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &BrandStore{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *BrandStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// UpsertBrand writes one BrandContext: the brand row is upserted keyed
// by website, then products, policies, FAQs, and socials are deleted and
// re-inserted inside one transaction.
func (s *BrandStore) UpsertBrand(ctx context.Context, brand *insights.BrandContext) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("brand store is not configured")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	metaJSON, err := json.Marshal(brand.Meta)
	if err != nil {
		return fmt.Errorf("marshal brand meta: %w", err)
	}

	var brandID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO brands (domain, name, about_text, fetched_at, meta)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (domain) DO UPDATE
		SET name = EXCLUDED.name,
		    about_text = EXCLUDED.about_text,
		    fetched_at = EXCLUDED.fetched_at,
		    meta = EXCLUDED.meta
		RETURNING id
	`, brand.Website, brand.BrandName, brand.AboutText, brand.FetchedAt, metaJSON).Scan(&brandID)
	if err != nil {
		return fmt.Errorf("upsert brand: %w", err)
	}

	for _, table := range []string{"products", "policies", "faqs", "socials"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE brand_id = $1", table), brandID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := s.insertProducts(ctx, tx, brandID, brand.ProductCatalog); err != nil {
		return err
	}
	for _, pol := range brand.Policies {
		_, err := tx.Exec(ctx, `
			INSERT INTO policies (brand_id, type, url, content_text, content_html)
			VALUES ($1, $2, $3, $4, $5)
		`, brandID, string(pol.Kind), pol.URL, pol.ContentText, pol.ContentHTML)
		if err != nil {
			return fmt.Errorf("insert policy: %w", err)
		}
	}
	for _, f := range brand.FAQs {
		_, err := tx.Exec(ctx, `
			INSERT INTO faqs (brand_id, question, answer, url)
			VALUES ($1, $2, $3, $4)
		`, brandID, f.Question, f.Answer, f.URL)
		if err != nil {
			return fmt.Errorf("insert faq: %w", err)
		}
	}
	for _, soc := range brand.Socials {
		_, err := tx.Exec(ctx, `
			INSERT INTO socials (brand_id, platform, url, handle)
			VALUES ($1, $2, $3, $4)
		`, brandID, string(soc.Platform), soc.URL, soc.Handle)
		if err != nil {
			return fmt.Errorf("insert social: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *BrandStore) insertProducts(ctx context.Context, tx pgx.Tx, brandID int64, products []insights.Product) error {
	for _, p := range products {
		imagesJSON, err := json.Marshal(p.Images)
		if err != nil {
			return fmt.Errorf("marshal product images: %w", err)
		}
		skusJSON, err := json.Marshal(p.SKUs)
		if err != nil {
			return fmt.Errorf("marshal product skus: %w", err)
		}
		tagsJSON, err := json.Marshal(p.Tags)
		if err != nil {
			return fmt.Errorf("marshal product tags: %w", err)
		}
		variantsJSON, err := json.Marshal(p.Variants)
		if err != nil {
			return fmt.Errorf("marshal product variants: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO products (brand_id, handle, title, url, images, price, currency, sku, tags, variants)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, brandID, p.Handle, p.Title, p.URL, imagesJSON, p.Price, p.Currency, skusJSON, tagsJSON, variantsJSON)
		if err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
	}
	return nil
}
