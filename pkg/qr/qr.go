package qr

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	qrcode "github.com/skip2/go-qrcode"
)

// Encode builds the token embedded in a registration QR code.
// The check-in scanner parses the leading REG segment to resolve the registration.
func Encode(registrationID, eventID uint, name, email string) string {
	return fmt.Sprintf("REG:%d|EVT:%d|NAME:%s|EMAIL:%s", registrationID, eventID, name, email)
}

// Decode extracts the registration ID from a scanned token. It accepts the
// full token produced by Encode as well as a bare numeric ID, so scanners
// that strip the payload down still work.
func Decode(token string) (uint, error) {
	raw := strings.TrimSpace(token)
	if seg, ok := strings.CutPrefix(raw, "REG:"); ok {
		if idx := strings.IndexByte(seg, '|'); idx >= 0 {
			seg = seg[:idx]
		}
		raw = seg
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed qr token: %w", err)
	}
	return uint(id), nil
}

// Materialize renders the token as a PNG image.
func Materialize(token string) ([]byte, error) {
	png, err := qrcode.Encode(token, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}

// FileName returns the artifact name for a registration. The email is slugged
// so the name stays filesystem-safe; the registration ID keeps it unique.
func FileName(registrationID uint, email string) string {
	return fmt.Sprintf("registration_%d_%s.png", registrationID, slug.Make(email))
}

// DiskStore persists QR artifacts under a single directory.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create qr directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the PNG and returns its path. Overwrites any previous artifact.
func (s *DiskStore) Save(fileName string, png []byte) (string, error) {
	path := filepath.Join(s.dir, fileName)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("failed to write qr artifact: %w", err)
	}
	return path, nil
}

func (s *DiskStore) Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (s *DiskStore) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read qr artifact: %w", err)
	}
	return data, nil
}
