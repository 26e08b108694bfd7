package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	mrand "math/rand"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

const (
	// UploadsURLPrefix is the public path every stored document URL starts with.
	UploadsURLPrefix = "/uploads/"
	// DocumentsDir is the key prefix, relative to the uploads root, for employee files.
	DocumentsDir = "empleados/documentos"

	defaultBaseName = "archivo"
)

// AllowedExtensions are the lowercase upload extensions accepted without the dot.
var AllowedExtensions = []string{"pdf", "jpg", "jpeg", "png", "doc", "docx", "xls", "xlsx"}

// ErrOutsideUploads is returned for stored URLs that do not resolve to a file
// under the uploads tree.
var ErrOutsideUploads = errors.New("path outside uploads directory")

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// randRead is swapped in tests to exercise the fallback token.
var randRead = rand.Read

// splitUploadName returns the base name of a client filename with the base
// part and the lowercased extension. Directory components are discarded.
func splitUploadName(name string) (original, base, ext string) {
	name = strings.ReplaceAll(name, `\`, "/")
	original = path.Base(name)
	if original == "." || original == "/" {
		original = defaultBaseName
	}
	dot := strings.LastIndex(original, ".")
	if dot < 0 {
		return original, original, ""
	}
	return original, original[:dot], strings.ToLower(original[dot+1:])
}

func extensionAllowed(ext string) bool {
	for _, e := range AllowedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// sanitizeBaseName keeps letters, digits, underscore and hyphen.
func sanitizeBaseName(base string) string {
	base = strings.Trim(unsafeNameChars.ReplaceAllString(base, "_"), "_")
	if base == "" {
		return defaultBaseName
	}
	return base
}

func randomToken() string {
	b := make([]byte, 4)
	if _, err := randRead(b); err != nil {
		return fmt.Sprintf("%06d", 100000+mrand.Intn(900000))
	}
	return hex.EncodeToString(b)
}

// storedName builds "<unix>_<random>_<sanitized base>.<ext>".
func storedName(now time.Time, base, ext string) string {
	return fmt.Sprintf("%d_%s_%s.%s", now.Unix(), randomToken(), sanitizeBaseName(base), ext)
}

// DocumentKey returns the storage key and public URL for a stored file name.
func DocumentKey(name string) (key, publicURL string) {
	key = DocumentsDir + "/" + name
	return key, UploadsURLPrefix + key
}

// ResolveUploadKey maps a stored document URL to its storage key. Only the URL
// path is considered; it must stay under UploadsURLPrefix after cleaning.
func ResolveUploadKey(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrOutsideUploads
	}
	if !strings.HasPrefix(u.Path, UploadsURLPrefix) {
		return "", ErrOutsideUploads
	}
	clean := path.Clean(u.Path)
	if !strings.HasPrefix(clean, UploadsURLPrefix) {
		return "", ErrOutsideUploads
	}
	key := strings.TrimPrefix(clean, UploadsURLPrefix)
	if key == "" {
		return "", ErrOutsideUploads
	}
	return key, nil
}
