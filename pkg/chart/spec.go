// Package chart turns lap telemetry and comparison results into chart
// descriptors. Drawing them is left to a Surface implementation.
package chart

import (
	"strconv"
)

// MaxTicks is the maximum number of x axis labels a backend should display.
const MaxTicks = 10

// Palette is cycled by series position.
var Palette = []string{
	"#e63946", "#457b9d", "#2a9d8f", "#e9c46a",
	"#f4a261", "#a8dadc", "#6d6875", "#b5838d",
}

// PaletteColor returns the palette entry for position idx.
func PaletteColor(idx int) string {
	n := len(Palette)
	return Palette[((idx%n)+n)%n]
}

type TooltipFormat string

const (
	TooltipValue         TooltipFormat = "value"
	TooltipSignedSeconds TooltipFormat = "signed-seconds"
)

type (
	Style struct {
		Color       string  `json:"color"`
		LineWidth   float64 `json:"lineWidth"`
		PointRadius float64 `json:"pointRadius"`
		Tension     float64 `json:"tension"`
		Fill        bool    `json:"fill"`
	}
	Series struct {
		Label string    `json:"label"`
		Data  []float64 `json:"data"`
		Style Style     `json:"style"`
	}
	// Spec describes a single line chart. All series share Labels as x axis.
	Spec struct {
		Title      string        `json:"title"`
		Labels     []string      `json:"labels"`
		MaxTicks   int           `json:"maxTicks"`
		YAxisTitle string        `json:"yAxisTitle,omitempty"`
		Legend     bool          `json:"legend"`
		Animation  bool          `json:"animation"`
		Tooltip    TooltipFormat `json:"tooltip"`
		Series     []Series      `json:"series"`
	}
)

// TooltipLabel returns the text shown when hovering point pointIdx of series
// seriesIdx. Returns an empty string if either index is out of range.
func (s *Spec) TooltipLabel(seriesIdx, pointIdx int) string {
	if seriesIdx < 0 || seriesIdx >= len(s.Series) {
		return ""
	}
	series := s.Series[seriesIdx]
	if pointIdx < 0 || pointIdx >= len(series.Data) {
		return ""
	}
	v := series.Data[pointIdx]
	switch s.Tooltip {
	case TooltipSignedSeconds:
		return series.Label + ": " + FormatSignedSeconds(v)
	default:
		return series.Label + ": " + strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func lineStyle(color string, width float64) Style {
	return Style{
		Color:       color,
		LineWidth:   width,
		PointRadius: 0,
		Tension:     0.1,
	}
}
