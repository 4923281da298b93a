package imagestore

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var ErrInvalidURL = errors.New("image link must be an absolute http(s) URL")

var driveFilePath = regexp.MustCompile(`^/file/d/([\w-]+)`)

// NormalizeURL validates a pasted image link and rewrites Drive share links
// (uc?export=view&id=..., /file/d/<id>/view) to the direct form.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}

	if strings.EqualFold(u.Hostname(), "drive.google.com") {
		if u.Path == "/uc" {
			if id := u.Query().Get("id"); id != "" {
				return DirectURL(id), nil
			}
		}
		if m := driveFilePath.FindStringSubmatch(u.Path); m != nil {
			return DirectURL(m[1]), nil
		}
	}
	return raw, nil
}
