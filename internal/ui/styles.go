package ui

import "github.com/charmbracelet/lipgloss"

// palette is the set of colors a theme is built from.
type palette struct {
	fg      lipgloss.Color
	bg      lipgloss.Color
	busyBg  lipgloss.Color
	accent  lipgloss.Color
	muted   lipgloss.Color
	done    lipgloss.Color
	warning lipgloss.Color
}

var palettes = map[string]palette{
	"light": {
		fg:      lipgloss.Color("#1f2937"),
		bg:      lipgloss.Color("#f9fafb"),
		busyBg:  lipgloss.Color("#e0f2fe"),
		accent:  lipgloss.Color("#2563eb"),
		muted:   lipgloss.Color("#6b7280"),
		done:    lipgloss.Color("#16a34a"),
		warning: lipgloss.Color("#b45309"),
	},
	"dark": {
		fg:      lipgloss.Color("#e5e7eb"),
		bg:      lipgloss.Color("#111827"),
		busyBg:  lipgloss.Color("#1e1b4b"),
		accent:  lipgloss.Color("#60a5fa"),
		muted:   lipgloss.Color("#9ca3af"),
		done:    lipgloss.Color("#4ade80"),
		warning: lipgloss.Color("#fbbf24"),
	},
}

type styles struct {
	frame     lipgloss.Style
	busyFrame lipgloss.Style
	title     lipgloss.Style
	header    lipgloss.Style
	cursor    lipgloss.Style
	row       lipgloss.Style
	doneRow   lipgloss.Style
	elapsed   lipgloss.Style
	badge     lipgloss.Style
	status    lipgloss.Style
	warning   lipgloss.Style
	help      lipgloss.Style
}

// newStyles builds styles for a theme name. Unknown names fall back to light.
func newStyles(theme string) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes["light"]
	}
	frame := lipgloss.NewStyle().Foreground(p.fg).Background(p.bg).Padding(1, 2)
	return styles{
		frame:     frame,
		busyFrame: frame.Background(p.busyBg),
		title:     lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		header:    lipgloss.NewStyle().Foreground(p.muted),
		cursor:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		row:       lipgloss.NewStyle().Foreground(p.fg),
		doneRow:   lipgloss.NewStyle().Foreground(p.muted).Strikethrough(true),
		elapsed:   lipgloss.NewStyle().Foreground(p.muted),
		badge:     lipgloss.NewStyle().Bold(true).Foreground(p.done),
		status:    lipgloss.NewStyle().Italic(true).Foreground(p.muted),
		warning:   lipgloss.NewStyle().Foreground(p.warning),
		help:      lipgloss.NewStyle().Foreground(p.muted),
	}
}
