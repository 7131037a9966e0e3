// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tagsync/internal/logger"
)

// Style names the editor draws with.
const (
	StyleDefault           = "Default"
	StyleLineNumber        = "LineNumber"
	StyleStatusBar         = "StatusBar"
	StyleStatusBarModified = "StatusBarModified"
	StyleStatusBarMessage  = "StatusBarMessage"
	StyleStatusBarTagSync  = "StatusBarTagSync"
	StyleMatchingTag       = "MatchingTag"
	StyleCommandLine       = "CommandLine"
)

// Theme maps style names to tcell styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the named style, falling back to the part before the first dot and
// then to Default.
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}
	if dot := strings.Index(name, "."); dot != -1 {
		if style, ok := t.Styles[name[:dot]]; ok {
			return style
		}
	}
	if def, ok := t.Styles[StyleDefault]; ok {
		if name != StyleDefault {
			logger.Debugf("Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return def
	}
	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

func builtinDark() *Theme {
	bg := tcell.NewHexColor(0x2a2f38)
	fg := tcell.NewHexColor(0xc5cdd9)
	yellow := tcell.NewHexColor(0xe5c07b)
	green := tcell.NewHexColor(0x98c379)
	blue := tcell.NewHexColor(0x61afef)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(fg)
	return &Theme{
		Name:   "default",
		IsDark: true,
		Styles: map[string]tcell.Style{
			StyleDefault:           base,
			StyleLineNumber:        base.Foreground(tcell.ColorGray),
			StyleStatusBar:         tcell.StyleDefault.Background(bg).Foreground(fg),
			StyleStatusBarModified: tcell.StyleDefault.Background(bg).Foreground(yellow),
			StyleStatusBarMessage:  tcell.StyleDefault.Background(bg).Foreground(fg).Bold(true),
			StyleStatusBarTagSync:  tcell.StyleDefault.Background(bg).Foreground(green),
			StyleMatchingTag:       base.Foreground(blue).Underline(true).Bold(true),
			StyleCommandLine:       base,
		},
	}
}

func builtinLight() *Theme {
	bg := tcell.NewHexColor(0xe5e9f0)
	fg := tcell.NewHexColor(0x2e3440)
	orange := tcell.NewHexColor(0xd08770)
	green := tcell.NewHexColor(0x4c8a3f)
	blue := tcell.NewHexColor(0x1f5fbf)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(fg)
	return &Theme{
		Name:   "light",
		IsDark: false,
		Styles: map[string]tcell.Style{
			StyleDefault:           base,
			StyleLineNumber:        base.Foreground(tcell.ColorGray),
			StyleStatusBar:         tcell.StyleDefault.Background(bg).Foreground(fg),
			StyleStatusBarModified: tcell.StyleDefault.Background(bg).Foreground(orange),
			StyleStatusBarMessage:  tcell.StyleDefault.Background(bg).Foreground(fg).Bold(true),
			StyleStatusBarTagSync:  tcell.StyleDefault.Background(bg).Foreground(green),
			StyleMatchingTag:       base.Foreground(blue).Underline(true),
			StyleCommandLine:       base,
		},
	}
}
