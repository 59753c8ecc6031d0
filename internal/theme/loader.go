package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/model"
)

// TomlTheme is the on-disk shape of a theme file:
//
//	name = "brand"
//	description = "Company colours"
//	is_dark = true
//
//	[background]
//	kind = "color"
//	value = "#123456"
type TomlTheme struct {
	Name        string           `toml:"name"`
	Description string           `toml:"description"`
	IsDark      bool             `toml:"is_dark"`
	Background  model.Background `toml:"background"`
}

// LoadThemeFromFile parses a TOML theme file.
func LoadThemeFromFile(filePath string) (Theme, error) {
	var tt TomlTheme
	metadata, err := toml.DecodeFile(filePath, &tt)
	if err != nil {
		return Theme{}, fmt.Errorf("failed to parse TOML theme file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Theme '%s': unrecognized keys in file '%s': %v", tt.Name, filePath, undecoded)
	}

	if tt.Name == "" {
		tt.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		logger.Debugf("Theme file '%s' missing 'name', using filename '%s'", filePath, tt.Name)
	}

	bg, err := normalizeBackground(tt.Background)
	if err != nil {
		return Theme{}, fmt.Errorf("theme '%s': %w", tt.Name, err)
	}
	return Theme{Name: tt.Name, Description: tt.Description, IsDark: tt.IsDark, Background: bg}, nil
}

func normalizeBackground(bg model.Background) (model.Background, error) {
	switch bg.Kind {
	case model.BackgroundColor:
		c, err := ParseColor(bg.Value)
		if err != nil {
			return bg, fmt.Errorf("background: %w", err)
		}
		bg.Value = c
	case model.BackgroundImage:
		if bg.Value == "" {
			return bg, errors.New("background: image without a value")
		}
	case model.BackgroundNone, "":
		bg = model.NoBackground()
	default:
		return bg, fmt.Errorf("background: unknown kind '%s'", bg.Kind)
	}
	bg.Locked = false
	return bg, nil
}

// loadDir loads every .toml file in dir. Missing directories are not an
// error; broken files are logged and skipped.
func loadDir(dir string) ([]Theme, error) {
	files, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Infof("Theme directory '%s' does not exist. No custom themes loaded.", dir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read theme directory '%s': %w", dir, err)
	}

	var themes []Theme
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".toml") {
			continue
		}
		path := filepath.Join(dir, file.Name())
		t, err := LoadThemeFromFile(path)
		if err != nil {
			logger.Warnf("Failed to load theme from '%s': %v", path, err)
			continue
		}
		themes = append(themes, t)
	}
	return themes, nil
}
