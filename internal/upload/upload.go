// Package upload stores profile images on local disk.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ErrNoFile      = errors.New("No file selected")
	ErrTooLarge    = errors.New("File too large. Max 5MB allowed.")
	ErrInvalidType = errors.New("Invalid file type")
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type Config struct {
	Dir               string
	PublicPrefix      string
	AllowedExtensions []string
	MaxBytes          int64
}

type Store struct {
	dir     string
	prefix  string
	allowed map[string]bool
	max     int64
}

func NewStore(cfg Config) *Store {
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))] = true
	}
	return &Store{
		dir:     cfg.Dir,
		prefix:  strings.TrimRight(cfg.PublicPrefix, "/"),
		allowed: allowed,
		max:     cfg.MaxBytes,
	}
}

// SanitizeFilename strips any directory part, replaces characters outside
// [A-Za-z0-9._-] with underscores and drops leading dots.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "_")
	return strings.TrimLeft(name, ".")
}

func (s *Store) allowedFile(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return ext != "" && s.allowed[ext]
}

// SaveProfileImage writes the file as {dir}/{userID}_{name} and returns its
// public URL.
func (s *Store) SaveProfileImage(userID int64, fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", ErrNoFile
	}

	name := SanitizeFilename(fh.Filename)
	if name == "" || !s.allowedFile(name) {
		return "", ErrInvalidType
	}
	if fh.Size > s.max {
		return "", ErrTooLarge
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	stored := fmt.Sprintf("%d_%s", userID, name)
	dst, err := os.Create(filepath.Join(s.dir, stored))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	// Size on the header comes from the client; cap the copy as well.
	n, err := io.Copy(dst, io.LimitReader(src, s.max+1))
	if err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	if n > s.max {
		dst.Close()
		os.Remove(filepath.Join(s.dir, stored))
		return "", ErrTooLarge
	}

	return s.prefix + "/" + stored, nil
}
