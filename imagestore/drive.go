package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"dollardash/filemgr"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// TokenStore holds the Drive access token granted to the admin client.
type TokenStore interface {
	DriveToken() (token string, expiry time.Time, ok bool)
}

// Drive uploads into a shared folder and opens each file to anyone with the
// link.
type Drive struct {
	folderID string
	tokens   TokenStore
	opts     []option.ClientOption
}

func NewDrive(folderID string, tokens TokenStore, opts ...option.ClientOption) *Drive {
	return &Drive{folderID: folderID, tokens: tokens, opts: opts}
}

func (d *Drive) Name() string { return "drive" }

func (d *Drive) token() (*oauth2.Token, bool) {
	if d.tokens == nil {
		return nil, false
	}
	access, expiry, ok := d.tokens.DriveToken()
	// oauth2 treats a zero expiry as never expiring.
	if !ok || expiry.IsZero() {
		return nil, false
	}
	tok := &oauth2.Token{AccessToken: access, TokenType: "Bearer", Expiry: expiry}
	return tok, tok.Valid()
}

func (d *Drive) Connected() bool {
	_, ok := d.token()
	return ok
}

func (d *Drive) Upload(ctx context.Context, u filemgr.Upload) (string, error) {
	tok, ok := d.token()
	if !ok {
		return "", ErrNotConnected
	}

	opts := append([]option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(tok))}, d.opts...)
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: drive client: %v", ErrUpload, err)
	}

	meta := &drive.File{Name: u.Filename, MimeType: u.MIME}
	if d.folderID != "" {
		meta.Parents = []string{d.folderID}
	}
	f, err := svc.Files.Create(meta).
		Media(bytes.NewReader(u.Data), googleapi.ContentType(u.MIME)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	perm := &drive.Permission{Role: "reader", Type: "anyone"}
	if _, err := svc.Permissions.Create(f.Id, perm).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("%w: share %s: %v", ErrUpload, f.Id, err)
	}

	log.Printf("[Drive] uploaded %s as %s", u.Filename, f.Id)
	return DirectURL(f.Id), nil
}

// DirectURL is the embeddable address of a public Drive file.
func DirectURL(fileID string) string {
	return "https://lh3.googleusercontent.com/d/" + fileID
}
