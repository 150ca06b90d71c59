// Package seedclaim keeps the marker that lets only one process seed a local store.
//
// The marker is a row in the settings table, so every process sharing the store
// file or database server sees it. It is created with an insert that does nothing
// on conflict: exactly one concurrent Acquire wins. A marker older than the TTL is
// considered abandoned and can be taken over.
package seedclaim

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/RecipeSync/RecipeSync/internal/db/controller/setting"
	"github.com/RecipeSync/RecipeSync/internal/db/models"
	"github.com/RecipeSync/RecipeSync/internal/localstore"
)

const (
	// SettingKeySeedClaim is the key the marker is stored under.
	SettingKeySeedClaim = "recipes_seed_claim"

	// DefaultTTL after which an unreleased marker is taken over.
	DefaultTTL = 10 * time.Minute
)

type marker struct {
	Owner     string    `json:"owner"`
	ClaimedAt time.Time `json:"claimedAt"`
}

// Option configures a Claim.
type Option func(*Claim)

// WithTTL sets the age after which a marker is taken over.
func WithTTL(d time.Duration) Option {
	return func(c *Claim) {
		c.ttl = d
	}
}

// Claim is the seeding marker of one process.
type Claim struct {
	store *localstore.Store
	owner string
	ttl   time.Duration
	now   func() time.Time

	// held is the stored value written by the last successful Acquire.
	held []byte
}

// New returns a claim on the marker in store.
func New(store *localstore.Store, opts ...Option) *Claim {
	c := &Claim{
		store: store,
		owner: uuid.NewString(),
		ttl:   DefaultTTL,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Acquire creates the marker. It reports false when another holder has it.
// Callers serialize Acquire and Release.
func (c *Claim) Acquire(ctx context.Context) (bool, error) {
	value, err := json.Marshal(marker{Owner: c.owner, ClaimedAt: c.now().UTC()})
	if err != nil {
		return false, err
	}

	var acquired bool

	err = localstore.Use[models.Setting](ctx, c.store, func(db *gorm.DB) error {
		created, err := setting.Insert(db, SettingKeySeedClaim, value)
		if err != nil || created {
			acquired = created

			return err
		}

		acquired, err = c.takeOver(db, value)

		return err
	})
	if err != nil {
		return false, err
	}

	if acquired {
		c.held = value
	}

	return acquired, nil
}

// takeOver replaces a marker older than the TTL.
func (c *Claim) takeOver(db *gorm.DB, value []byte) (bool, error) {
	current, err := setting.Get(db, SettingKeySeedClaim)
	if errors.Is(err, setting.ErrSettingNotFound) {
		// released in between, the next Acquire may win
		return false, nil
	}

	if err != nil {
		return false, err
	}

	var m marker
	if err := json.Unmarshal(current.Value, &m); err == nil && c.now().Sub(m.ClaimedAt) < c.ttl {
		return false, nil
	}

	log.Warn().Str("owner", m.Owner).Time("claimedAt", m.ClaimedAt).Msg("taking over stale seed claim")

	return setting.Swap(db, SettingKeySeedClaim, current.Value, value)
}

// Release deletes the marker if this claim still holds it.
func (c *Claim) Release(ctx context.Context) error {
	if c.held == nil {
		return nil
	}

	value := c.held

	err := localstore.Use[models.Setting](ctx, c.store, func(db *gorm.DB) error {
		_, err := setting.DeleteValue(db, SettingKeySeedClaim, value)

		return err
	})
	if err != nil {
		return err
	}

	c.held = nil

	return nil
}
