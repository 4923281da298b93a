package filemgr

import "errors"

type PictureType string

const (
	// PicProduct is a catalog photo as uploaded.
	PicProduct PictureType = "product"
	// PicThumb is the square re-encoded photo stored with the product.
	PicThumb PictureType = "thumb"
)

// MaxUploadSize caps a single image upload.
const MaxUploadSize = 10 << 20

// ProductImageSize is the edge of the square product photo.
const ProductImageSize = 800

var (
	AllowedExtensions = map[PictureType][]string{
		PicProduct: {".jpg", ".jpeg", ".png", ".gif", ".webp"},
		PicThumb:   {".jpg", ".jpeg"},
	}

	AllowedMIMEs = map[PictureType][]string{
		PicProduct: {"image/jpeg", "image/png", "image/gif", "image/webp"},
		PicThumb:   {"image/jpeg"},
	}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
	ErrDecode           = errors.New("could not decode image")
)
