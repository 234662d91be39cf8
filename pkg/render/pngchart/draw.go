package pngchart

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"regexp"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mpapenbr/lapcompare/pkg/chart"
)

// Draw renders spec as PNG into w. Charts go-chart cannot draw (no series
// with at least two points, zero value range) are written as blank image.
func Draw(spec *chart.Spec, width, height int, w io.Writer) error {
	c, ok := buildChart(spec, width, height)
	if !ok {
		return blank(width, height, w)
	}
	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return blank(width, height, w)
	}
	_, err := buf.WriteTo(w)
	return err
}

func buildChart(spec *chart.Spec, width, height int) (gochart.Chart, bool) {
	series := make([]gochart.Series, 0, len(spec.Series))
	points := len(spec.Labels)
	drawable := false
	for idx, s := range spec.Series {
		xs := make([]float64, len(s.Data))
		for i := range xs {
			xs[i] = float64(i)
		}
		points = max(points, len(s.Data))
		if len(s.Data) > 1 {
			drawable = true
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Label,
			XValues: xs,
			YValues: s.Data,
			Style:   seriesStyle(s.Style, idx),
		})
	}
	c := gochart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(points - 1)},
			Ticks: thinTicks(spec.Labels, spec.MaxTicks),
			Style: gochart.Style{Hidden: len(spec.Labels) == 0},
		},
		YAxis:  gochart.YAxis{Name: spec.YAxisTitle},
		Series: series,
	}
	if spec.Legend {
		c.Elements = []gochart.Renderable{gochart.Legend(&c)}
	}
	return c, drawable
}

func seriesStyle(s chart.Style, idx int) gochart.Style {
	col := parseColor(s.Color, chart.PaletteColor(idx))
	ret := gochart.Style{
		StrokeColor: col,
		StrokeWidth: s.LineWidth,
		DotWidth:    s.PointRadius,
	}
	if s.PointRadius > 0 {
		ret.DotColor = col
	}
	if s.Fill {
		ret.FillColor = col.WithAlpha(64)
	}
	return ret
}

var hexColor = regexp.MustCompile(`^([0-9a-fA-F]{3}){1,2}$`)

// parseColor parses #rgb or #rrggbb. Anything else yields fallback, which
// must be valid.
func parseColor(hex, fallback string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if !hexColor.MatchString(hex) {
		hex = strings.TrimPrefix(fallback, "#")
	}
	return drawing.ColorFromHex(hex)
}

// thinTicks keeps at most maxTicks evenly spaced labels. maxTicks <= 0 keeps all.
func thinTicks(labels []string, maxTicks int) []gochart.Tick {
	if len(labels) == 0 {
		return nil
	}
	step := 1
	if maxTicks > 0 && len(labels) > maxTicks {
		step = (len(labels) + maxTicks - 1) / maxTicks
	}
	ret := make([]gochart.Tick, 0, min(len(labels), max(maxTicks, 1)))
	for i := 0; i < len(labels); i += step {
		ret = append(ret, gochart.Tick{Value: float64(i), Label: labels[i]})
	}
	return ret
}

func blank(width, height int, w io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return png.Encode(w, img)
}
