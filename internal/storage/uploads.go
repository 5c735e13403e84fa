package storage

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Buckets the storefront writes to. Anything else is rejected so a crafted
// request cannot write outside the upload root.
var allowedBuckets = map[string]bool{
	"payment-proofs": true,
	"products":       true,
	"qr-codes":       true,
	"coa-reports":    true,
}

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true, // COA reports
}

var (
	ErrBadBucket = errors.New("unknown upload bucket")
	ErrBadType   = errors.New("only JPEG, PNG, WebP images or PDF files are accepted")
)

// Store saves uploads under a local directory and serves them back as
// public URLs - the upload(file) -> url boundary the checkout depends on.
type Store struct {
	Dir     string // filesystem root, e.g. ./uploads
	BaseURL string // public prefix, e.g. http://localhost:8080
}

// Save writes the file into its bucket and returns the public URL.
// Any failure aborts with an error; the caller decides whether that blocks
// the surrounding operation (it does, for payment proofs).
func (s *Store) Save(c *gin.Context, file *multipart.FileHeader, bucket string) (string, error) {
	if !allowedBuckets[bucket] {
		return "", ErrBadBucket
	}
	if !allowedTypes[file.Header.Get("Content-Type")] {
		return "", ErrBadType
	}

	dir := filepath.Join(s.Dir, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to prepare upload folder: %w", err)
	}

	// Unique, path-safe filename: "1712345678_proof.jpg"
	base := filepath.Base(file.Filename)
	base = strings.ReplaceAll(base, " ", "_")
	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), base)

	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s/%s", s.BaseURL, bucket, filename), nil
}
