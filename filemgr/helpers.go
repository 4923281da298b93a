package filemgr

import (
	"fmt"
	"image"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

var unsafeName = regexp.MustCompile(`[^a-z0-9_\-]`)

// SafeFilename lowercases name, swaps spaces for underscores, strips anything
// else unusual and appends ext.
func SafeFilename(name, ext string) string {
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeName.ReplaceAllString(name, "")
	if name == "" {
		name = "image"
	}
	return name + ext
}

func isExtensionAllowed(ext string, picType PictureType) bool {
	return slices.Contains(AllowedExtensions[picType], ext)
}

func isMIMEAllowed(mimeType string, picType PictureType) bool {
	return slices.Contains(AllowedMIMEs[picType], mimeType)
}

// ValidateImageDimensions rejects images larger than the given bounds.
func ValidateImageDimensions(img image.Image, maxWidth, maxHeight int) error {
	b := img.Bounds()
	if b.Dx() > maxWidth || b.Dy() > maxHeight {
		return fmt.Errorf("image dimensions %dx%d exceed allowed maximum %dx%d", b.Dx(), b.Dy(), maxWidth, maxHeight)
	}
	return nil
}
