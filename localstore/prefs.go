package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	KeyMode          = "dollardash-mode"
	keyFavorites     = "dollar-dash-favorites"
	KeyDriveToken    = "gdrive_token"
	KeyDriveTokenExp = "gdrive_token_expiry"
)

// Prefs is the small process-wide settings store: mode flag, visitor
// favorites and the object-storage access token.
type Prefs struct {
	store *Store
}

func NewPrefs(store *Store) *Prefs {
	return &Prefs{store: store}
}

// Mode returns the persisted mode flag, or "" when unset.
func (p *Prefs) Mode() (string, error) {
	v, err := p.store.Get(KeyMode)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

func (p *Prefs) SetMode(mode string) error {
	return p.store.Set(KeyMode, mode)
}

func (p *Prefs) ClearMode() error {
	return p.store.Delete(KeyMode)
}

func favoritesKey(visitor string) string {
	return keyFavorites + ":" + visitor
}

// Favorites returns the favorite product ids saved for visitor.
func (p *Prefs) Favorites(visitor string) ([]string, error) {
	raw, err := p.store.Get(favoritesKey(visitor))
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return []string{}, nil
	}
	return ids, nil
}

func (p *Prefs) SetFavorites(visitor string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal favorites: %w", err)
	}
	return p.store.Set(favoritesKey(visitor), string(data))
}

// DriveToken returns the stored access token and its expiry. ok is false when
// nothing is stored or the expiry is missing or unreadable.
func (p *Prefs) DriveToken() (token string, expiry time.Time, ok bool) {
	tok, err := p.store.Get(KeyDriveToken)
	if err != nil || tok == "" {
		return "", time.Time{}, false
	}
	raw, err := p.store.Get(KeyDriveTokenExp)
	if err != nil {
		return "", time.Time{}, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "", time.Time{}, false
	}
	return tok, time.UnixMilli(ms), true
}

// SetDriveToken writes the expiry before the token, so a token is never
// readable without one.
func (p *Prefs) SetDriveToken(token string, expiry time.Time) error {
	if err := p.store.Set(KeyDriveTokenExp, strconv.FormatInt(expiry.UnixMilli(), 10)); err != nil {
		return err
	}
	return p.store.Set(KeyDriveToken, token)
}

func (p *Prefs) ClearDriveToken() error {
	if err := p.store.Delete(KeyDriveToken); err != nil {
		return err
	}
	return p.store.Delete(KeyDriveTokenExp)
}
