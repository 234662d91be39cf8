//nolint:funlen // ok for tests
package pngchart

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mpapenbr/lapcompare/pkg/chart"
	"github.com/mpapenbr/lapcompare/testsupport/basedata"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func pngFiles(t *testing.T, dir string) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	assert.NoError(t, err)
	ret := []string{}
	for _, f := range files {
		ret = append(ret, filepath.Base(f))
	}
	return ret
}

func TestSurface_lifecycle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "channels")
	s, err := New(dir, WithSize(320, 200))
	assert.NoError(t, err)

	lap := basedata.SampleLap(1)
	var instances []chart.Instance
	for _, spec := range chart.ChannelCharts(&lap) {
		inst, err := s.Add(context.Background(), spec)
		assert.NoError(t, err)
		instances = append(instances, inst)
	}
	assert.Equal(t, []string{"01-speed-km-h.png", "02-rpm.png", "03-throttle.png"}, pngFiles(t, dir))

	data, err := os.ReadFile(filepath.Join(dir, "02-rpm.png"))
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	assert.NoError(t, instances[1].Dispose())
	assert.NoError(t, instances[1].Dispose())
	assert.Equal(t, []string{"01-speed-km-h.png", "03-throttle.png"}, pngFiles(t, dir))

	assert.NoError(t, s.Clear())
	assert.Empty(t, pngFiles(t, dir))

	// numbering restarts on an empty surface
	_, err = s.Add(context.Background(), &chart.Spec{Title: "Delta-T"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"01-delta-t.png"}, pngFiles(t, dir))
}

func TestSurface_Clear_removesFilesOfEarlierSurfaces(t *testing.T) {
	dir := t.TempDir()
	first, err := New(dir, WithSize(320, 200))
	assert.NoError(t, err)
	lap := basedata.SampleLap(1)
	for _, spec := range chart.ChannelCharts(&lap) {
		_, err := first.Add(context.Background(), spec)
		assert.NoError(t, err)
	}
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o600))

	// a later run works on the same directory with a fresh surface
	second, err := New(dir, WithSize(320, 200))
	assert.NoError(t, err)
	assert.NoError(t, second.Clear())
	assert.Empty(t, pngFiles(t, dir))
	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err)

	_, err = second.Add(context.Background(), &chart.Spec{Title: "speed"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"01-speed.png"}, pngFiles(t, dir))
}

func TestSurface_Add_canceled(t *testing.T) {
	s, err := New(t.TempDir())
	assert.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Add(ctx, &chart.Spec{Title: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDraw(t *testing.T) {
	tests := []struct {
		name string
		spec *chart.Spec
	}{
		{name: "empty", spec: &chart.Spec{Title: "empty"}},
		{
			name: "single point",
			spec: &chart.Spec{Title: "one", Labels: []string{"0.00"}, Series: []chart.Series{
				{Label: "a", Data: []float64{1}},
			}},
		},
		{
			name: "delta",
			spec: chart.DeltaChart(basedata.SampleComparison().Deltas),
		},
		{
			name: "missing and invalid colors",
			spec: &chart.Spec{Title: "colors", Labels: []string{"0.00", "0.25"}, Series: []chart.Series{
				{Label: "zero style", Data: []float64{1, 2}},
				{Label: "bad", Data: []float64{2, 3}, Style: chart.Style{Color: "#12"}},
				{Label: "named", Data: []float64{3, 1}, Style: chart.Style{Color: "red"}},
			}},
		},
		{
			name: "flat",
			spec: &chart.Spec{Title: "flat", Labels: []string{"0.00", "0.25", "0.50"}, Series: []chart.Series{
				{Label: "a", Data: []float64{5, 5, 5}},
			}},
		},
		{
			name: "axis without labels",
			spec: &chart.Spec{Title: "rpm", Legend: true, Series: []chart.Series{
				{Label: "Lap 2", Data: []float64{1, 2, 3}, Style: chart.Style{Color: "#457b9d", LineWidth: 1.5}},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.NoError(t, Draw(tt.spec, 320, 200, &buf))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "#e63946", want: "e63946"},
		{in: "457b9d", want: "457b9d"},
		{in: "#abc", want: "abc"},
		{in: "", want: "2a9d8f"},
		{in: "#", want: "2a9d8f"},
		{in: "#12", want: "2a9d8f"},
		{in: "#e6394", want: "2a9d8f"},
		{in: "#zzzzzz", want: "2a9d8f"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, drawing.ColorFromHex(tt.want), parseColor(tt.in, "#2a9d8f"))
		})
	}
}

func TestThinTicks(t *testing.T) {
	labels := func(n int) []string {
		return chart.FormatTimestamps(make([]float64, n))
	}
	tests := []struct {
		name      string
		n         int
		max       int
		wantCount int
	}{
		{name: "none", n: 0, max: 10, wantCount: 0},
		{name: "below", n: 5, max: 10, wantCount: 5},
		{name: "equal", n: 10, max: 10, wantCount: 10},
		{name: "above", n: 11, max: 10, wantCount: 6},
		{name: "many", n: 500, max: 10, wantCount: 10},
		{name: "unlimited", n: 50, max: 0, wantCount: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := thinTicks(labels(tt.n), tt.max)
			assert.Len(t, got, tt.wantCount)
			if tt.max > 0 {
				assert.LessOrEqual(t, len(got), tt.max)
			}
			if len(got) > 0 {
				assert.Equal(t, 0.0, got[0].Value)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "speed-km-h", slug("speed (km/h)"))
	assert.Equal(t, "chart", slug("()"))
	assert.Equal(t, "lap-7-vs-lap-12", slug("Lap 7 vs Lap 12"))
}
