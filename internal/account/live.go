package account

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Live holds the signed-in account shared by the screens. Readers get
// clones; every Commit is persisted before it becomes visible.
type Live struct {
	repo Repo

	mu   sync.RWMutex
	acct *Account
}

// NewLive wraps an already loaded account.
func NewLive(repo Repo, a *Account) *Live {
	return &Live{repo: repo, acct: a}
}

// Get returns a copy of the current account.
func (l *Live) Get() *Account {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.acct == nil {
		return nil
	}
	return l.acct.Clone()
}

// Commit saves next and makes it current. On a save error the current
// account is unchanged.
func (l *Live) Commit(ctx context.Context, next *Account) error {
	if next == nil {
		return fmt.Errorf("commit: nil account")
	}
	next = next.Clone()
	next.UpdatedAt = time.Now().UTC()
	if err := l.repo.Save(ctx, next); err != nil {
		return err
	}

	l.mu.Lock()
	l.acct = next
	l.mu.Unlock()
	return nil
}
