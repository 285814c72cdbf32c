package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const productsSchema = `
	CREATE TABLE IF NOT EXISTS products (
		id       TEXT PRIMARY KEY,
		nombre   TEXT NOT NULL,
		cantidad INTEGER NOT NULL,
		precio   TEXT NOT NULL
	)
`

// SQLiteStore keeps the catalog in a single products table. Prices are
// stored as decimal text so they round-trip exactly.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := db.ExecContext(ctx, productsSchema)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Location() string { return s.path }

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *SQLiteStore) Load(ctx context.Context) ([]Fields, error) {
	var out []Fields

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, nombre, cantidad, precio
			FROM products
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Fields, 0, 16)
		for rows.Next() {
			var (
				f     Fields
				price string
			)
			if err := rows.Scan(&f.ID, &f.Name, &f.Quantity, &price); err != nil {
				return err
			}
			if f.Price, err = ParsePrice(price); err != nil {
				return fmt.Errorf("product %q: %w", f.ID, err)
			}
			out = append(out, f)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

// Save replaces every stored row with fields in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, fields []Fields) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO products (id, nombre, cantidad, precio)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, f := range fields {
			if _, err := stmt.ExecContext(ctx, f.ID, f.Name, f.Quantity, f.Price.String()); err != nil {
				return fmt.Errorf("insert %q: %w", f.ID, err)
			}
		}
		return tx.Commit()
	})
}
