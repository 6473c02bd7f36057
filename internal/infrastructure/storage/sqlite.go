package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/budgettracker/backend/internal/domain"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

const purchaseColumns = "id, name, link, cost, purchased, comments, room, created_at, updated_at"

// SQLiteStore is a purchase repository backed by SQLite
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("a database path was not specified")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writers; a single connection also keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Create inserts a new purchase
func (s *SQLiteStore) Create(ctx context.Context, purchase *domain.Purchase) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO purchases ("+purchaseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		purchase.ID, purchase.Name, purchase.Link, purchase.Cost, purchase.Purchased,
		purchase.Comments, purchase.Room,
		purchase.CreatedAt.UnixNano(), purchase.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}
	return nil
}

// Get retrieves a purchase by ID
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.Purchase, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+purchaseColumns+" FROM purchases WHERE id = ?", id)
	purchase, err := scanPurchase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPurchaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read purchase: %w", err)
	}
	return purchase, nil
}

// List returns purchases newest first, optionally limited to one room
func (s *SQLiteStore) List(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, error) {
	query := "SELECT " + purchaseColumns + " FROM purchases"
	var args []any
	if filter.Room != "" {
		query += " WHERE room = ?"
		args = append(args, filter.Room)
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	purchases := []*domain.Purchase{}
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read purchase: %w", err)
		}
		purchases = append(purchases, purchase)
	}
	return purchases, rows.Err()
}

// Update replaces an existing purchase
func (s *SQLiteStore) Update(ctx context.Context, purchase *domain.Purchase) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE purchases
		 SET name = ?, link = ?, cost = ?, purchased = ?, comments = ?, room = ?, updated_at = ?
		 WHERE id = ?`,
		purchase.Name, purchase.Link, purchase.Cost, purchase.Purchased,
		purchase.Comments, purchase.Room, purchase.UpdatedAt.UnixNano(), purchase.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a purchase
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM purchases WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	return requireAffected(res)
}

// Totals sums purchase costs overall, by purchased status and by room
func (s *SQLiteStore) Totals(ctx context.Context) (*domain.PurchaseTotals, error) {
	totals := &domain.PurchaseTotals{ByRoom: make(map[string]float64)}

	err := s.db.QueryRowContext(ctx, `SELECT
		COALESCE(SUM(cost), 0),
		COALESCE(SUM(CASE WHEN purchased THEN cost ELSE 0 END), 0),
		COUNT(*)
		FROM purchases`,
	).Scan(&totals.Total, &totals.Purchased, &totals.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to sum purchases: %w", err)
	}
	totals.Remaining = totals.Total - totals.Purchased

	rows, err := s.db.QueryContext(ctx, "SELECT room, SUM(cost) FROM purchases GROUP BY room")
	if err != nil {
		return nil, fmt.Errorf("failed to sum purchases by room: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var room string
		var sum float64
		if err := rows.Scan(&room, &sum); err != nil {
			return nil, fmt.Errorf("failed to read room total: %w", err)
		}
		totals.ByRoom[room] = sum
	}
	return totals, rows.Err()
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPurchase(row rowScanner) (*domain.Purchase, error) {
	var p domain.Purchase
	var createdAt, updatedAt int64
	err := row.Scan(&p.ID, &p.Name, &p.Link, &p.Cost, &p.Purchased, &p.Comments, &p.Room, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &p, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrPurchaseNotFound
	}
	return nil
}
