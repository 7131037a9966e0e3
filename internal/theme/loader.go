// internal/theme/loader.go
package theme

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tagsync/internal/logger"
)

// styleDef is one [styles.<Name>] table. Pointers tell unset from false.
type styleDef struct {
	Fg        *string `toml:"fg"`
	Bg        *string `toml:"bg"`
	Bold      *bool   `toml:"bold"`
	Italic    *bool   `toml:"italic"`
	Underline *bool   `toml:"underline"`
	Reverse   *bool   `toml:"reverse"`
}

// themeFile is the layout of a theme file:
//
//	name = "ocean"
//	is_dark = true
//	[styles.MatchingTag]
//	fg = "#61afef"
//	underline = true
type themeFile struct {
	Name   string              `toml:"name"`
	IsDark bool                `toml:"is_dark"`
	Styles map[string]styleDef `toml:"styles"`
}

// LoadThemeFromFile reads a TOML theme. Styles inherit unset attributes from the
// file's Default style; a missing name falls back to the file name.
func LoadThemeFromFile(path string) (*Theme, error) {
	var file themeFile
	metadata, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse theme file '%s': %w", path, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Theme file '%s': Unrecognized keys: %v", path, undecoded)
	}
	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	t := &Theme{Name: file.Name, IsDark: file.IsDark, Styles: make(map[string]tcell.Style)}

	base := tcell.StyleDefault
	if def, ok := file.Styles[StyleDefault]; ok {
		if base, err = def.apply(tcell.StyleDefault); err != nil {
			logger.Warnf("Theme '%s': bad Default style, using terminal default: %v", t.Name, err)
			base = tcell.StyleDefault
		}
	}
	t.Styles[StyleDefault] = base

	for name, def := range file.Styles {
		if name == StyleDefault {
			continue
		}
		style, err := def.apply(base)
		if err != nil {
			logger.Warnf("Theme '%s': skipping style '%s': %v", t.Name, name, err)
			continue
		}
		t.Styles[name] = style
	}
	return t, nil
}

func (d styleDef) apply(style tcell.Style) (tcell.Style, error) {
	if d.Fg != nil {
		c, err := parseColor(*d.Fg)
		if err != nil {
			return style, fmt.Errorf("fg: %w", err)
		}
		style = style.Foreground(c)
	}
	if d.Bg != nil {
		c, err := parseColor(*d.Bg)
		if err != nil {
			return style, fmt.Errorf("bg: %w", err)
		}
		style = style.Background(c)
	}
	if d.Bold != nil {
		style = style.Bold(*d.Bold)
	}
	if d.Italic != nil {
		style = style.Italic(*d.Italic)
	}
	if d.Underline != nil {
		style = style.Underline(*d.Underline)
	}
	if d.Reverse != nil {
		style = style.Reverse(*d.Reverse)
	}
	return style, nil
}

// parseColor accepts #rrggbb, tcell color names, "reset" and "default".
func parseColor(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "reset":
		return tcell.ColorReset, nil
	case "default":
		return tcell.ColorDefault, nil
	}
	if strings.HasPrefix(s, "#") && len(s) != 7 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color '%s', must be #RRGGBB", s)
	}
	c := tcell.GetColor(s)
	if c == tcell.ColorDefault {
		return c, fmt.Errorf("unknown color '%s'", s)
	}
	return c, nil
}
