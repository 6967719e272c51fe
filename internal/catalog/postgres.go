package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/xaenox/shopbot/internal/models"
	"github.com/xaenox/shopbot/internal/storage"
)

const productSchema = `
CREATE TABLE IF NOT EXISTS products (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    category       TEXT NOT NULL,
    price          NUMERIC NOT NULL,
    brand          TEXT NOT NULL DEFAULT '',
    rating         NUMERIC NOT NULL DEFAULT 0,
    description    TEXT NOT NULL DEFAULT '',
    features       TEXT[] NOT NULL DEFAULT '{}',
    specifications JSONB NOT NULL DEFAULT '[]'
)`

// PostgresProvider reads the catalog from a products table.
type PostgresProvider struct {
	db *sql.DB
}

func NewPostgresProvider(config storage.DatabaseConfig) (*PostgresProvider, error) {
	db, err := sql.Open("postgres", config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if _, err := db.Exec(productSchema); err != nil {
		return nil, fmt.Errorf("error initializing products schema: %w", err)
	}

	return &PostgresProvider{db: db}, nil
}

func (p *PostgresProvider) Products(ctx context.Context) ([]models.CatalogItem, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, category, price, brand, rating, description, features, specifications
		FROM products
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error querying products: %w", err)
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		var item models.CatalogItem
		var specs []byte
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Category,
			&item.Price,
			&item.Brand,
			&item.Rating,
			&item.Description,
			pq.Array(&item.Features),
			&specs,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		if len(specs) > 0 {
			if err := json.Unmarshal(specs, &item.Specifications); err != nil {
				return nil, fmt.Errorf("error decoding specifications for %s: %w", item.ID, err)
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return items, nil
}

func (p *PostgresProvider) Close() error {
	return p.db.Close()
}
