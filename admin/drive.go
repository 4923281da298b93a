package admin

import (
	"errors"
	"strings"
	"time"
)

const defaultTokenLifetime = time.Hour

var ErrEmptyDriveToken = errors.New("drive access token is required")

// DriveTokens persists the Drive access token handed over by the admin client.
type DriveTokens interface {
	DriveToken() (token string, expiry time.Time, ok bool)
	SetDriveToken(token string, expiry time.Time) error
	ClearDriveToken() error
}

// DriveStatus is what the settings screen shows.
type DriveStatus struct {
	Connected bool       `json:"connected"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type Drive struct {
	tokens DriveTokens
	now    func() time.Time
}

func NewDrive(tokens DriveTokens) *Drive {
	return &Drive{tokens: tokens, now: time.Now}
}

// Connect stores token valid for expiresIn, or an hour when expiresIn is zero.
func (d *Drive) Connect(token string, expiresIn time.Duration) (DriveStatus, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return DriveStatus{}, ErrEmptyDriveToken
	}
	if expiresIn <= 0 {
		expiresIn = defaultTokenLifetime
	}
	if err := d.tokens.SetDriveToken(token, d.now().Add(expiresIn)); err != nil {
		return DriveStatus{}, err
	}
	return d.Status(), nil
}

func (d *Drive) Disconnect() error {
	return d.tokens.ClearDriveToken()
}

// Status reports an expired token as disconnected.
func (d *Drive) Status() DriveStatus {
	_, expiry, ok := d.tokens.DriveToken()
	if !ok {
		return DriveStatus{}
	}
	if !d.now().Before(expiry) {
		return DriveStatus{}
	}
	return DriveStatus{Connected: true, ExpiresAt: &expiry}
}
