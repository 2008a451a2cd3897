package jobspec

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"
)

// SupportedExtension is the only upload suffix that produces a job.
const SupportedExtension = ".mp4"

var (
	// ErrUnsupportedExtension marks keys that are not transcoded. Callers skip them.
	ErrUnsupportedExtension = errors.New("unsupported media extension")
	// ErrMalformedKey marks keys whose percent-encoding cannot be decoded.
	ErrMalformedKey = errors.New("malformed object key")
)

// DecodeKey recovers the storage path from an S3 notification key, where
// spaces arrive as '+' and everything else is percent-encoded. Escapes that
// decode to invalid UTF-8 are malformed.
func DecodeKey(raw string) (string, error) {
	key, err := url.PathUnescape(strings.ReplaceAll(raw, "+", " "))
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrMalformedKey, raw, err)
	}
	if !utf8.ValidString(key) {
		return "", fmt.Errorf("%w %q: not valid utf-8", ErrMalformedKey, raw)
	}
	return key, nil
}

// BaseName strips the directory and the final extension from key.
// Dot-files keep their whole name.
func BaseName(key string) string {
	name := path.Base(key)
	if base := strings.TrimSuffix(name, path.Ext(name)); base != "" {
		return base
	}
	return name
}

// OutputPrefix is the key prefix under which a job's renditions are written.
func OutputPrefix(base string) string {
	return "processed/" + base + "/"
}
