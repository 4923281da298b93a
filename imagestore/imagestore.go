package imagestore

import (
	"context"
	"errors"
	"fmt"

	"dollardash/filemgr"
)

var (
	// ErrNotConnected means the backend needs an access token the admin has
	// not supplied, or the one stored has expired.
	ErrNotConnected = errors.New("image storage is not connected")
	ErrUpload       = errors.New("image upload failed")
)

// Uploader stores an image and returns a public URL for it.
type Uploader interface {
	Upload(ctx context.Context, u filemgr.Upload) (string, error)
	Name() string
	// Connected reports whether Upload can be attempted right now.
	Connected() bool
}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	DriveFolderID string
	CloudinaryURL string
	S3Bucket      string
	AWSRegion     string
}

// New builds the configured backend. The Drive backend reads its token from
// tokens at upload time.
func New(ctx context.Context, opts Options, tokens TokenStore) (Uploader, error) {
	switch opts.Backend {
	case "", "drive":
		return NewDrive(opts.DriveFolderID, tokens), nil
	case "cloudinary":
		return NewCloudinary(opts.CloudinaryURL)
	case "s3":
		return NewS3(ctx, opts.S3Bucket, opts.AWSRegion)
	default:
		return nil, fmt.Errorf("unknown image backend %q", opts.Backend)
	}
}
