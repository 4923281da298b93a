package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"dollardash/filemgr"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cloudURL string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Name() string    { return "cloudinary" }
func (c *Cloudinary) Connected() bool { return true }

func (c *Cloudinary) Upload(ctx context.Context, u filemgr.Upload) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, bytes.NewReader(u.Data), uploader.UploadParams{Folder: "dollardash"})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", ErrUpload, res.Error.Message)
	}
	log.Printf("[Cloudinary] uploaded %s as %s", u.Filename, res.PublicID)
	return res.SecureURL, nil
}
