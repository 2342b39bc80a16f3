// Package account holds the client-local account record: resources,
// language tracks and the localized UI strings.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/lingua/internal/i18n"
	"github.com/abhisek/lingua/internal/ledger"
	"github.com/abhisek/lingua/internal/profile"
)

// ErrNotFound is returned when no account exists for an identity.
var ErrNotFound = errors.New("account not found")

// Account is the persisted state of one learner. Operations on it return
// modified copies; the caller owns the read-modify-write cycle.
type Account struct {
	ID            string               `json:"id"`
	Nickname      string               `json:"nickname"`
	Resources     ledger.ResourceState `json:"resources"`
	Tracks        []profile.Track      `json:"tracks"`
	ActiveTrackID string               `json:"active_track_id"`
	Strings       i18n.Table           `json:"ui_strings,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// New onboards an account with the starting resources and one track.
func New(identity, nickname, native, target string, tier profile.Tier) (*Account, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, fmt.Errorf("identity is required")
	}
	if len(strings.TrimSpace(nickname)) < 3 {
		return nil, fmt.Errorf("nickname must be at least 3 characters")
	}

	track, err := profile.NewTrack(native, target, tier)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Account{
		ID:            identity,
		Nickname:      strings.TrimSpace(nickname),
		Resources:     ledger.Starting(),
		Tracks:        []profile.Track{track},
		ActiveTrackID: track.ID,
		Strings:       i18n.Default(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Clone returns a deep copy of a.
func (a *Account) Clone() *Account {
	c := *a
	c.Tracks = append([]profile.Track(nil), a.Tracks...)
	if a.Strings != nil {
		c.Strings = a.Strings.Clone()
	}
	return &c
}

// ActiveTrack returns the selected track. When the selection is stale the
// first track is used.
func (a *Account) ActiveTrack() (profile.Track, bool) {
	for _, t := range a.Tracks {
		if t.ID == a.ActiveTrackID {
			return t, true
		}
	}
	if len(a.Tracks) > 0 {
		return a.Tracks[0], true
	}
	return profile.Track{}, false
}

// WithTrack returns a copy with track replacing the one of the same ID,
// or appended when it is new.
func (a *Account) WithTrack(track profile.Track) *Account {
	c := a.Clone()
	for i, t := range c.Tracks {
		if t.ID == track.ID {
			c.Tracks[i] = track
			return c
		}
	}
	c.Tracks = append(c.Tracks, track)
	return c
}

// WithResources returns a copy with the given resources.
func (a *Account) WithResources(state ledger.ResourceState) *Account {
	c := a.Clone()
	c.Resources = state
	return c
}

// WithActiveTrack returns a copy with id selected. Unknown ids are an error.
func (a *Account) WithActiveTrack(id string) (*Account, error) {
	for _, t := range a.Tracks {
		if t.ID == id {
			c := a.Clone()
			c.ActiveTrackID = id
			return c, nil
		}
	}
	return nil, fmt.Errorf("no track %q on account %q", id, a.ID)
}

// Label returns the UI string for key.
func (a *Account) Label(key string) string {
	return a.Strings.Get(key)
}

// Repo loads and saves accounts keyed by identity.
type Repo interface {
	Load(ctx context.Context, id string) (*Account, error)
	Save(ctx context.Context, a *Account) error
	List(ctx context.Context) ([]*Account, error)
	Delete(ctx context.Context, id string) error
}
