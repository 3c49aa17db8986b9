package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/figtree/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan    = lipgloss.Color("36")  // Teal - primary actions
	colorGreen   = lipgloss.Color("35")  // Green - success
	colorYellow  = lipgloss.Color("220") // Amber - warnings
	colorRed     = lipgloss.Color("167") // Soft red - errors
	colorMagenta = lipgloss.Color("170") // Magenta - orphans
	colorWhite   = lipgloss.Color("255") // Bright white - values
	colorGray    = lipgloss.Color("245") // Gray - secondary text
	colorDim     = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleOrphan for nodes standing in for missing components.
	StyleOrphan = lipgloss.NewStyle().Foreground(colorMagenta).Bold(true)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleScreen    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleComponent = lipgloss.NewStyle().Foreground(colorGreen)
	styleInstance  = lipgloss.NewStyle().Italic(true).Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// status selects the icon and style of an output line.
type status int

const (
	statusSuccess status = iota
	statusError
	statusWarning
	statusInfo
)

// statusText renders msg behind the icon of st.
func statusText(st status, msg string) string {
	switch st {
	case statusSuccess:
		return styleIconSuccess.Render(iconSuccess) + " " + msg
	case statusError:
		return styleIconError.Render(iconError) + " " + msg
	case statusWarning:
		return styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg)
	default:
		return styleIconInfo.Render(iconInfo) + " " + msg
	}
}

// printf writes a status line to the CLI output.
func (c *CLI) printf(st status, format string, args ...any) {
	fmt.Fprintln(c.Out, statusText(st, fmt.Sprintf(format, args...)))
}

// detail writes an indented, dimmed line.
func (c *CLI) detail(format string, args ...any) {
	fmt.Fprintln(c.Out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file writes an output file line.
func (c *CLI) file(path string) {
	fmt.Fprintln(c.Out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

var styleKey = lipgloss.NewStyle().Foreground(colorGray).Width(12)

// keyValue writes a labeled value.
func (c *CLI) keyValue(key, value string) {
	fmt.Fprintln(c.Out, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// statsLine formats build statistics on a single line, e.g.
// "12 nodes · 3 templates · fresh".
func statsLine(s pipeline.Stats, cached bool) string {
	var parts []string
	for _, p := range []struct {
		n    int
		unit string
	}{
		{s.Nodes, "nodes"},
		{s.Templates, "templates"},
		{s.Warnings, "warnings"},
	} {
		if p.n > 0 {
			parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s", p.n, p.unit)))
		}
	}
	if cached {
		parts = append(parts, styleCached.Render(iconCached))
	} else {
		parts = append(parts, styleComputed.Render(iconFresh))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}
