// Package store reads and writes presentations as YAML or JSON files. The
// format follows the file extension; documents are saved as-is, with the
// current slide and slide selection included.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/model"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrUnknownFormat = errors.New("unknown document format")
	ErrEmptyPath     = errors.New("path cannot be empty")
)

// Format is a serialization format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Encode serializes p.
func Encode(p model.Presentation, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("failed to marshal yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownFormat, f)
	}
}

// Decode parses data and checks the document invariants.
func Decode(data []byte, f Format) (model.Presentation, error) {
	var p model.Presentation
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &p)
	case FormatJSON:
		err = json.Unmarshal(data, &p)
	default:
		return model.Presentation{}, fmt.Errorf("%w: '%s'", ErrUnknownFormat, f)
	}
	if err != nil {
		return model.Presentation{}, fmt.Errorf("failed to unmarshal %s: %w", f, err)
	}
	if err := model.Validate(p); err != nil {
		return model.Presentation{}, fmt.Errorf("invalid document: %w", err)
	}
	return p, nil
}

// Load reads the document at path.
func Load(ctx context.Context, path string) (model.Presentation, error) {
	if path == "" {
		return model.Presentation{}, ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return model.Presentation{}, err
	}
	f, err := FormatFor(path)
	if err != nil {
		return model.Presentation{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Presentation{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return model.Presentation{}, fmt.Errorf("failed to read document: %w", err)
	}
	p, err := Decode(data, f)
	if err != nil {
		return model.Presentation{}, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debugf("store: loaded '%s' (%d slides)", path, len(p.Slides))
	return p, nil
}

// Save writes p to path atomically: the data goes to a temp file in the same
// directory, is synced, then renamed over the destination.
func Save(ctx context.Context, path string, p model.Presentation) error {
	if path == "" {
		return ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(p, f)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath) // gone after a successful rename
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	logger.Debugf("store: saved '%s' (%d bytes)", path, len(data))
	return nil
}
