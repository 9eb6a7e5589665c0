package ratings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/rickgao/smartbet/internal/elo"
)

// FileSuffix is appended to the sport name to form the table file name.
const FileSuffix = "_elo.json"

// File stores each sport's table as an indented JSON object in Dir.
type File struct {
	Dir string
}

// NewFile creates a file persister rooted at dir.
func NewFile(dir string) *File {
	return &File{Dir: dir}
}

// Path returns the table file of a sport.
func (f *File) Path(sport string) string {
	return filepath.Join(f.Dir, sport+FileSuffix)
}

// Load reads the table of a sport. A missing file is an empty table.
func (f *File) Load(_ context.Context, sport string) (elo.Table, error) {
	data, err := os.ReadFile(f.Path(sport))
	if errors.Is(err, fs.ErrNotExist) {
		return elo.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ratings file: %w", err)
	}

	table, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path(sport), err)
	}
	return table, nil
}

// Save writes the table through a synced temp file and rename, so readers
// never observe a partial document, even after a crash.
func (f *File) Save(_ context.Context, sport string, table elo.Table) error {
	data, err := Encode(table)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("create ratings dir: %w", err)
	}
	if err := renameio.WriteFile(f.Path(sport), data, 0o644); err != nil {
		return fmt.Errorf("write ratings file: %w", err)
	}
	return nil
}

// Encode renders a table as 2-space indented JSON.
func Encode(table elo.Table) ([]byte, error) {
	if table == nil {
		table = elo.Table{}
	}
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode ratings: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a JSON table. Empty input is an empty table.
func Decode(data []byte) (elo.Table, error) {
	table := elo.Table{}
	if len(bytes.TrimSpace(data)) == 0 {
		return table, nil
	}
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse ratings: %w", err)
	}
	return table, nil
}
