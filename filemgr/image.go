package filemgr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Upload is a validated image held in memory.
type Upload struct {
	Filename string
	MIME     string
	Data     []byte
}

// Validate checks the extension and the sniffed content type against
// picType. The form's Content-Type is only used when sniffing is inconclusive.
func Validate(filename, formMIME string, head []byte, picType PictureType) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !isExtensionAllowed(ext, picType) {
		return "", fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}

	mimeType := http.DetectContentType(head)
	if mimeType == "application/octet-stream" && formMIME != "" {
		mimeType = formMIME
	}
	if !isMIMEAllowed(mimeType, picType) {
		return "", fmt.Errorf("%w: %s", ErrInvalidMIME, mimeType)
	}
	return mimeType, nil
}

// ReadUpload reads and validates a multipart image no larger than maxSize.
func ReadUpload(file multipart.File, header *multipart.FileHeader, maxSize int64) (Upload, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return Upload{}, ErrFileTooLarge
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mimeType, err := Validate(header.Filename, header.Header.Get("Content-Type"), head, PicProduct)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Filename: header.Filename, MIME: mimeType, Data: data}, nil
}

// SquareJPEG decodes data, center-crops it to a square of size pixels and
// re-encodes it as JPEG. Re-encoding drops EXIF and other metadata.
func SquareJPEG(data []byte, size int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := ValidateImageDimensions(img, 8000, 8000); err != nil {
		return nil, err
	}

	square := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, square, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Prepare turns a validated upload into the square product photo.
func Prepare(u Upload) (Upload, error) {
	data, err := SquareJPEG(u.Data, ProductImageSize)
	if err != nil {
		return Upload{}, err
	}
	return Upload{
		Filename: SafeFilename(u.Filename, ".jpg"),
		MIME:     "image/jpeg",
		Data:     data,
	}, nil
}
