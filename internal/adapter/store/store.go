// Package store persists and loads an Index as a single file.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"docseek/internal/domain"
	"docseek/internal/logging"
	"docseek/internal/port"
)

var (
	_ port.IndexStore = (*FileStore)(nil)
	_ port.IndexStore = (*BoltStore)(nil)
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatBolt = "bolt"
)

// Formats lists the accepted values of index.format.
var Formats = []string{FormatJSON, FormatYAML, FormatBolt}

// New returns the store for a format name.
func New(format string) (port.IndexStore, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return NewFileStore(JSONCodec{}), nil
	case FormatYAML, "yml":
		return NewFileStore(YAMLCodec{}), nil
	case FormatBolt, "db":
		return NewBoltStore(), nil
	default:
		return nil, fmt.Errorf("unknown index format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// ForPath picks the store from the file extension and falls back to
// defaultFormat for unknown extensions.
func ForPath(path, defaultFormat string) (port.IndexStore, error) {
	if format := FormatForPath(path); format != "" {
		return New(format)
	}
	return New(defaultFormat)
}

// ParseFormat returns the canonical name of a format or one of its
// aliases.
func ParseFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatBolt, "db":
		return FormatBolt, nil
	default:
		return "", fmt.Errorf("unknown index format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// FormatForPath reports the format implied by the extension of path, or
// "" when the extension is not an index extension.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".db", ".bolt":
		return FormatBolt
	default:
		return ""
	}
}

var extensions = map[string]string{
	FormatJSON: ".json",
	FormatYAML: ".yaml",
	FormatBolt: ".db",
}

// WithExtension gives path the extension of format, so ForPath reads the
// file back with the store that wrote it. An index extension is replaced
// and a missing one is added; any other extension is kept.
func WithExtension(path, format string) string {
	ext := filepath.Ext(path)
	switch {
	case FormatForPath(path) != "":
		return strings.TrimSuffix(path, ext) + extensions[format]
	case ext == "":
		return path + extensions[format]
	default:
		return path
	}
}

// FileStore writes the encoded index in one piece and reads it back whole.
type FileStore struct {
	codec  Codec
	logger *slog.Logger
}

func NewFileStore(codec Codec) *FileStore {
	return &FileStore{
		codec:  codec,
		logger: logging.WithComponent("store").With("format", codec.Name()),
	}
}

func (s *FileStore) Save(path string, idx *domain.Index) error {
	data, err := s.codec.Encode(idx)
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	tmp, err := tempPath(path)
	if err != nil {
		return domain.NewIOError("save", path, err)
	}
	if err := writeFileSync(tmp, data); err != nil {
		os.Remove(tmp)
		return domain.NewIOError("save", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return domain.NewIOError("save", path, err)
	}

	s.logger.Debug("index saved", "path", path, "documents", idx.Len(), "bytes", len(data))
	return nil
}

func (s *FileStore) Load(path string) (*domain.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewIOError("load", path, err)
	}
	idx, err := s.codec.Decode(data)
	if err != nil {
		return nil, domain.NewFormatError("load", path, err)
	}
	s.logger.Debug("index loaded", "path", path, "documents", idx.Len())
	return idx, nil
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
