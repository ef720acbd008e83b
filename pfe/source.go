package pfe

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FontSource loads the bytes of a font by id.
type FontSource interface {
	Load(fontID string) ([]byte, error)
}

// DirFontSource reads fonts from a directory; the font id is the file name.
type DirFontSource struct {
	Dir string
}

func (d DirFontSource) Load(fontID string) ([]byte, error) {
	if fontID == "" || fontID != filepath.Base(fontID) {
		return nil, fmt.Errorf("invalid font id %q", fontID)
	}
	b, err := os.ReadFile(filepath.Join(d.Dir, fontID))
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", fontID, err)
	}
	return b, nil
}

// MapFontSource serves fonts held in memory.
type MapFontSource map[string][]byte

func (m MapFontSource) Load(fontID string) ([]byte, error) {
	b, ok := m[fontID]
	if !ok {
		return nil, fmt.Errorf("font %s: %w", fontID, fs.ErrNotExist)
	}
	return b, nil
}
