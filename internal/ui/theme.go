package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/facetnav/internal/config"
)

// Styles are the lipgloss styles the model renders with.
type Styles struct {
	Header       lipgloss.Style
	Trail        lipgloss.Style
	TrailCurrent lipgloss.Style
	Muted        lipgloss.Style
	Error        lipgloss.Style
	PaneTitle    lipgloss.Style
	Pane         lipgloss.Style
	PaneFocused  lipgloss.Style

	// Table colors, nil under NoColor.
	TableHeader   color.Color
	TableSelected color.Color
	TableSelBG    color.Color
}

func colorOrNil(s string) color.Color {
	if s == "" {
		return nil
	}
	return lipgloss.Color(s)
}

// NewStyles builds styles from the configured theme. With noColor only
// bold, reverse and borders remain.
func NewStyles(tc config.ThemeConfig, noColor bool) Styles {
	pane := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	if noColor {
		return Styles{
			Header:       lipgloss.NewStyle().Bold(true),
			Trail:        lipgloss.NewStyle(),
			TrailCurrent: lipgloss.NewStyle().Bold(true),
			Muted:        lipgloss.NewStyle(),
			Error:        lipgloss.NewStyle().Bold(true),
			PaneTitle:    lipgloss.NewStyle().Bold(true),
			Pane:         pane,
			PaneFocused:  pane.Border(lipgloss.ThickBorder()),
		}
	}

	accent := colorOrNil(tc.Accent)
	muted := colorOrNil(tc.Muted)
	border := colorOrNil(tc.Border)
	s := Styles{
		Header:        lipgloss.NewStyle().Bold(true),
		Trail:         lipgloss.NewStyle(),
		TrailCurrent:  lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle(),
		Error:         lipgloss.NewStyle().Bold(true),
		PaneTitle:     lipgloss.NewStyle().Bold(true),
		Pane:          pane,
		PaneFocused:   pane,
		TableHeader:   accent,
		TableSelected: colorOrNil(tc.Selected),
		TableSelBG:    accent,
	}
	if accent != nil {
		s.Header = s.Header.Foreground(accent)
		s.TrailCurrent = s.TrailCurrent.Foreground(accent)
		s.PaneTitle = s.PaneTitle.Foreground(accent)
		s.PaneFocused = s.PaneFocused.BorderForeground(accent)
	}
	if muted != nil {
		s.Trail = s.Trail.Foreground(muted)
		s.Muted = s.Muted.Foreground(muted)
	}
	if border != nil {
		s.Pane = s.Pane.BorderForeground(border)
	}
	if c := colorOrNil(tc.Error); c != nil {
		s.Error = s.Error.Foreground(c)
	}
	return s
}
