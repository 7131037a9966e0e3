// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/tagsync/internal/theme"
	"github.com/bethropolis/tagsync/internal/types"
)

// DefaultMessageTimeout is how long a temporary message replaces the status line.
const DefaultMessageTimeout = 4 * time.Second

// StatusBar is the bottom line: file, cursor, mode, plugin segments or a message.
type StatusBar struct {
	mu      sync.RWMutex
	timeout time.Duration
	now     func() time.Time

	filePath   string
	cursorPos  types.Position
	isModified bool
	editorMode string
	segments   []string

	TempMessage     string
	tempMessageTime time.Time
	commandLine     string // Shown instead of everything else while typing a ':' command
	commandActive   bool
}

// New creates a status bar. A non-positive timeout means DefaultMessageTimeout.
func New(timeout time.Duration) *StatusBar {
	if timeout <= 0 {
		timeout = DefaultMessageTimeout
	}
	return &StatusBar{timeout: timeout, now: time.Now}
}

func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

func (sb *StatusBar) SetCursorInfo(pos types.Position) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.cursorPos = pos
}

func (sb *StatusBar) SetEditorMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.editorMode = mode
}

// SetSegments replaces the plugin segments shown on the right.
func (sb *StatusBar) SetSegments(segments []string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.segments = append(sb.segments[:0], segments...)
}

// SetCommandLine shows a ':' command being typed; active=false hides it.
func (sb *StatusBar) SetCommandLine(text string, active bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.commandLine = text
	sb.commandActive = active
}

// SetTemporaryMessage displays a message until the timeout passes.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.TempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
}

func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.TempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// Text returns what Draw would show and the theme style name to show it with.
func (sb *StatusBar) Text() (string, string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.commandActive {
		return ":" + sb.commandLine, theme.StyleCommandLine
	}
	if !sb.tempMessageTime.IsZero() {
		if sb.now().Sub(sb.tempMessageTime) <= sb.timeout {
			return sb.TempMessage, theme.StyleStatusBarMessage
		}
		sb.TempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	name := "[No Name]"
	if sb.filePath != "" {
		name = filepath.Base(sb.filePath)
	}
	style := theme.StyleStatusBar
	if sb.isModified {
		name += " [+]"
		style = theme.StyleStatusBarModified
	}
	text := fmt.Sprintf("%s  %d:%d", name, sb.cursorPos.Line+1, sb.cursorPos.Col+1)
	if sb.editorMode != "" {
		text += "  -- " + sb.editorMode + " --"
	}
	if len(sb.segments) > 0 {
		text += "  " + strings.Join(sb.segments, " | ")
	}
	return text, style
}

// Draw renders the status bar on the last screen row.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int, activeTheme *theme.Theme) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1
	text, styleName := sb.Text()
	style := tcell.StyleDefault
	if activeTheme != nil {
		style = activeTheme.GetStyle(styleName)
	}

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	gr := uniseg.NewGraphemes(text)
	currentX := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > width {
			break
		}
		runes := gr.Runes()
		screen.SetContent(currentX, y, runes[0], runes[1:], style)
		currentX += clusterWidth
	}
}
