package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SwapHands/item_trading_app/internal/apperrors"
	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS entities (
	kind TEXT NOT NULL,
	id   INTEGER NOT NULL,
	doc  JSONB NOT NULL,
	PRIMARY KEY (kind, id)
);`

// Store persists entities as JSONB documents keyed by (kind, id). It mirrors
// the sqlite backend so deployments can pick either through configuration.
type Store struct {
	pool *pgxpool.Pool
}

var _ portsrepo.Store = (*Store)(nil)

// NewStore wraps an established pool and ensures the entities table exists.
func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("init pgsql schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Get(ctx context.Context, kind domain.Kind, id int) (domain.Entity, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM entities WHERE kind = $1 AND id = $2`, string(kind), id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
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
	rows, err := s.pool.Query(ctx,
		`SELECT doc FROM entities WHERE kind = $1 ORDER BY id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var out []domain.Entity
	for rows.Next() {
		var doc []byte
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
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create %s: %w", kind, err)
	}
	defer tx.Rollback(ctx)

	var next int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(id), 0) + 1 FROM entities WHERE kind = $1`, string(kind)).Scan(&next); err != nil {
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
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(1) FROM entities WHERE kind = $1 AND id = $2`, string(kind), id).Scan(&count); err != nil {
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
		if _, err := tx.Exec(ctx,
			`INSERT INTO entities (kind, id, doc) VALUES ($1, $2, $3)`,
			string(kind), assigned[i], doc); err != nil {
			return nil, fmt.Errorf("insert %s %d: %w", kind, assigned[i], err)
		}
		out[i] = stored
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create %s: %w", kind, err)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, kind domain.Kind, entities []domain.Entity) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update %s: %w", kind, err)
	}
	defer tx.Rollback(ctx)

	seen := make(map[int]bool, len(entities))
	for _, e := range entities {
		if e.Kind() != kind {
			return fmt.Errorf("update %s: got %s: %w", kind, e.Kind(), apperrors.ErrNonUniformBatch)
		}
		var count int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(1) FROM entities WHERE kind = $1 AND id = $2`, string(kind), e.Key()).Scan(&count); err != nil {
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
		if _, err := tx.Exec(ctx,
			`UPDATE entities SET doc = $1 WHERE kind = $2 AND id = $3`,
			doc, string(kind), e.Key()); err != nil {
			return fmt.Errorf("update %s %d: %w", kind, e.Key(), err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update %s: %w", kind, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, kind domain.Kind, ids []int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete %s: %w", kind, err)
	}
	defer tx.Rollback(ctx)

	for _, id := range ids {
		tag, err := tx.Exec(ctx,
			`DELETE FROM entities WHERE kind = $1 AND id = $2`, string(kind), id)
		if err != nil {
			return fmt.Errorf("delete %s %d: %w", kind, id, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%s id %d: %w", kind, id, apperrors.ErrNotFound)
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) Remove(ctx context.Context, kind domain.Kind) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM entities WHERE kind = $1`, string(kind)); err != nil {
		return fmt.Errorf("remove %s: %w", kind, err)
	}
	return nil
}

func decode(kind domain.Kind, doc []byte) (domain.Entity, error) {
	e, ok := domain.New(kind)
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	if err := json.Unmarshal(doc, e); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return e, nil
}
