package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/lingua/internal/account"
)

// AccountRepo persists accounts as JSON documents keyed by identity.
// It implements account.Repo.
type AccountRepo struct {
	db *sql.DB
}

var _ account.Repo = (*AccountRepo)(nil)

// Load returns the account for id or account.ErrNotFound.
func (r *AccountRepo) Load(ctx context.Context, id string) (*account.Account, error) {
	query, args := sqlite().
		Select("data").
		From(entsql.Table(accountsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var data string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account %q: %w", id, err)
	}
	return decodeAccount(data)
}

// Save inserts or replaces the account document.
func (r *AccountRepo) Save(ctx context.Context, a *account.Account) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("save account: missing identity")
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now().UTC()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = a.UpdatedAt
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}

	query, args := sqlite().
		Insert(accountsTable).
		Columns("id", "nickname", "data", "created_at", "updated_at").
		Values(a.ID, a.Nickname, string(data), a.CreatedAt, a.UpdatedAt).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("nickname")
				u.SetExcluded("data")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save account %q: %w", a.ID, err)
	}
	return nil
}

// List returns all accounts, most recently updated first.
func (r *AccountRepo) List(ctx context.Context) ([]*account.Account, error) {
	query, args := sqlite().
		Select("data").
		From(entsql.Table(accountsTable)).
		OrderBy(entsql.Desc("updated_at")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []*account.Account
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a, err := decodeAccount(data)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes the account. Deleting a missing account is not an error.
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	query, args := sqlite().
		Delete(accountsTable).
		Where(entsql.EQ("id", id)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete account %q: %w", id, err)
	}
	return nil
}

func decodeAccount(data string) (*account.Account, error) {
	var a account.Account
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	return &a, nil
}
