package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SwapHands/item_trading_app/internal/apperrors"
	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS entities (
	kind TEXT NOT NULL,
	id   INTEGER NOT NULL,
	doc  TEXT NOT NULL,
	PRIMARY KEY (kind, id)
);`

// Store persists entities as JSON documents in a single sqlite table, one row
// per entity. Each batch write runs in one database transaction.
type Store struct {
	db *sql.DB
}

var _ portsrepo.Store = (*Store)(nil)

// NewStore opens (and if needed initializes) the database at path. An empty
// path uses an in-process database.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// A single connection keeps :memory: databases and write transactions sane.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, kind domain.Kind, id int) (domain.Entity, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM entities WHERE kind = ? AND id = ?`, string(kind), id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s id %d: %w", kind, id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", kind, id, err)
	}
	return decode(kind, doc)
}

func (s *Store) GetMany(ctx context.Context, kind domain.Kind, ids []int) ([]domain.Entity, error) {
	out := make([]domain.Entity, 0, len(ids))
	for _, id := range ids {
		e, err := s.Get(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) All(ctx context.Context, kind domain.Kind) ([]domain.Entity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM entities WHERE kind = ? ORDER BY id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var out []domain.Entity
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		e, err := decode(kind, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, kind domain.Kind, entities []domain.Entity) ([]domain.Entity, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create %s: %w", kind, err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0) + 1 FROM entities WHERE kind = ?`, string(kind)).Scan(&next); err != nil {
		return nil, fmt.Errorf("next id for %s: %w", kind, err)
	}

	seen := make(map[int]bool, len(entities))
	assigned := make([]int, len(entities))
	for i, e := range entities {
		if e.Kind() != kind {
			return nil, fmt.Errorf("create %s: got %s: %w", kind, e.Kind(), apperrors.ErrNonUniformBatch)
		}
		id := e.Key()
		if id == 0 {
			id = next
			next++
		}
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM entities WHERE kind = ? AND id = ?`, string(kind), id).Scan(&count); err != nil {
			return nil, fmt.Errorf("check %s %d: %w", kind, id, err)
		}
		if count > 0 || seen[id] {
			return nil, fmt.Errorf("%s id %d: %w", kind, id, apperrors.ErrDuplicate)
		}
		seen[id] = true
		assigned[i] = id
	}

	out := make([]domain.Entity, len(entities))
	for i, e := range entities {
		stored := e.Clone()
		stored.SetKey(assigned[i])
		doc, err := json.Marshal(stored)
		if err != nil {
			return nil, fmt.Errorf("encode %s %d: %w", kind, assigned[i], err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entities (kind, id, doc) VALUES (?, ?, ?)`,
			string(kind), assigned[i], string(doc)); err != nil {
			return nil, fmt.Errorf("insert %s %d: %w", kind, assigned[i], err)
		}
		out[i] = stored
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create %s: %w", kind, err)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, kind domain.Kind, entities []domain.Entity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update %s: %w", kind, err)
	}
	defer tx.Rollback()

	seen := make(map[int]bool, len(entities))
	for _, e := range entities {
		if e.Kind() != kind {
			return fmt.Errorf("update %s: got %s: %w", kind, e.Kind(), apperrors.ErrNonUniformBatch)
		}
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM entities WHERE kind = ? AND id = ?`, string(kind), e.Key()).Scan(&count); err != nil {
			return fmt.Errorf("check %s %d: %w", kind, e.Key(), err)
		}
		if count == 0 {
			return fmt.Errorf("%s id %d: %w", kind, e.Key(), apperrors.ErrNotFound)
		}
		if seen[e.Key()] {
			return fmt.Errorf("%s id %d repeated in batch: %w", kind, e.Key(), apperrors.ErrDuplicate)
		}
		seen[e.Key()] = true
	}

	for _, e := range entities {
		doc, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode %s %d: %w", kind, e.Key(), err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE entities SET doc = ? WHERE kind = ? AND id = ?`,
			string(doc), string(kind), e.Key()); err != nil {
			return fmt.Errorf("update %s %d: %w", kind, e.Key(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update %s: %w", kind, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, kind domain.Kind, ids []int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete %s: %w", kind, err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM entities WHERE kind = ? AND id = ?`, string(kind), id)
		if err != nil {
			return fmt.Errorf("delete %s %d: %w", kind, id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete %s %d: %w", kind, id, err)
		}
		if n == 0 {
			return fmt.Errorf("%s id %d: %w", kind, id, apperrors.ErrNotFound)
		}
	}
	return tx.Commit()
}

func (s *Store) Remove(ctx context.Context, kind domain.Kind) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM entities WHERE kind = ?`, string(kind))
	if err != nil {
		return fmt.Errorf("remove %s: %w", kind, err)
	}
	return nil
}

func decode(kind domain.Kind, doc string) (domain.Entity, error) {
	e, ok := domain.New(kind)
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	if err := json.Unmarshal([]byte(doc), e); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return e, nil
}
