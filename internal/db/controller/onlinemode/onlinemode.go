// Package onlinemode persists the flag that selects between the remote source and
// the local store.
package onlinemode

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/RecipeSync/RecipeSync/internal/db/controller/setting"
	"github.com/RecipeSync/RecipeSync/internal/db/models"
	"github.com/RecipeSync/RecipeSync/internal/localstore"
)

const (
	// SettingKeyOnlineMode is the key the flag is stored under.
	SettingKeyOnlineMode = "online_mode"

	// Default applies while no value has been saved.
	Default = true
)

// Settings is the stored JSON document.
type Settings struct {
	OnlineMode *bool `form:"online_mode" json:"onlineMode" validate:"required"`
}

// Load reads the settings. A missing row yields Default.
func (p *Settings) Load(db *gorm.DB) error {
	s, err := setting.Get(db, SettingKeyOnlineMode)
	if errors.Is(err, setting.ErrSettingNotFound) {
		p.OnlineMode = new(bool)
		*p.OnlineMode = Default

		return nil
	}

	if err != nil {
		return err
	}

	return json.Unmarshal(s.Value, p)
}

// Save writes the settings.
func (p *Settings) Save(db *gorm.DB) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	_, err = setting.Set(db, SettingKeyOnlineMode, data)

	return err
}

// Enabled reports the flag value, Default when unset.
func (p *Settings) Enabled() bool {
	if p.OnlineMode == nil {
		return Default
	}

	return *p.OnlineMode
}

// Flag reads and writes the online mode through a local store.
// Each Online call performs exactly one read.
type Flag struct {
	store *localstore.Store
}

// NewFlag returns the flag kept in store.
func NewFlag(store *localstore.Store) *Flag {
	return &Flag{store: store}
}

// Online returns the persisted flag. When the local store cannot be opened it
// returns Default, so online reads keep working without a usable store.
func (f *Flag) Online(ctx context.Context) (bool, error) {
	var s Settings

	err := localstore.Use[models.Setting](ctx, f.store, func(db *gorm.DB) error {
		return s.Load(db)
	})
	if errors.Is(err, localstore.ErrStorageInit) {
		log.Warn().Err(err).Bool("online", Default).Msg("online mode unreadable, using default")

		return Default, nil
	}

	if err != nil {
		return false, err
	}

	return s.Enabled(), nil
}

// Set persists the flag.
func (f *Flag) Set(ctx context.Context, online bool) error {
	s := Settings{OnlineMode: &online}

	return localstore.Use[models.Setting](ctx, f.store, func(db *gorm.DB) error {
		return s.Save(db)
	})
}
