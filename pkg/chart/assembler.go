package chart

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/mpapenbr/lapcompare/log"
	"github.com/mpapenbr/lapcompare/pkg/model"
)

// AxisSource selects the lap whose timestamps label a channel overlay.
type AxisSource int

const (
	// AxisFirstLapInList uses the first lap of the result. If that lap lacks
	// the channel the axis stays empty, even when later laps have data.
	AxisFirstLapInList AxisSource = iota
	// AxisFirstLapWithData uses the first lap that contains the channel.
	AxisFirstLapWithData
)

func ParseAxisSource(s string) (AxisSource, error) {
	switch s {
	case "", "first-lap":
		return AxisFirstLapInList, nil
	case "first-with-data":
		return AxisFirstLapWithData, nil
	}
	return AxisFirstLapInList, fmt.Errorf("unknown axis source %q", s)
}

func (a AxisSource) String() string {
	if a == AxisFirstLapWithData {
		return "first-with-data"
	}
	return "first-lap"
}

// RenderPlan is the chart set of a comparison. DeltaChart is nil if the result
// has no deltas.
type RenderPlan struct {
	DeltaChart    *Spec   `json:"deltaChart,omitempty"`
	ChannelCharts []*Spec `json:"channelCharts"`
}

type Assembler struct {
	axisSource AxisSource
	log        *log.Logger
}

type AssemblerOption func(a *Assembler)

func WithAxisSource(src AxisSource) AssemblerOption {
	return func(a *Assembler) {
		a.axisSource = src
	}
}

func WithAssemblerLogger(l *log.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.log = l
	}
}

func NewAssembler(opts ...AssemblerOption) *Assembler {
	ret := &Assembler{
		axisSource: AxisFirstLapInList,
		log:        log.Default().Named("chart.assembler"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (a *Assembler) Assemble(result *model.ComparisonResult) *RenderPlan {
	ret := &RenderPlan{
		DeltaChart:    DeltaChart(result.Deltas),
		ChannelCharts: make([]*Spec, 0, len(result.ChannelsAvailable)),
	}
	for _, name := range result.ChannelsAvailable {
		ret.ChannelCharts = append(ret.ChannelCharts, a.overlay(result, name))
	}
	a.log.Debug("assembled plan",
		log.Int("laps", len(result.Laps)),
		log.Int("deltas", len(result.Deltas)),
		log.Int("channelCharts", len(ret.ChannelCharts)))
	return ret
}

// DeltaChart builds the delta overlay or nil if there are no deltas.
// Series colors start at the second palette entry.
func DeltaChart(deltas []model.LapDelta) *Spec {
	if len(deltas) == 0 {
		return nil
	}
	series := lo.Map(deltas, func(d model.LapDelta, i int) Series {
		style := lineStyle(PaletteColor(i+1), 2)
		style.Fill = false
		return Series{
			Label: fmt.Sprintf("Lap %d vs Lap %d", d.ComparisonLapID, d.ReferenceLapID),
			Data:  d.DeltaSeconds,
			Style: style,
		}
	})
	var ts []float64
	if first, ok := lo.First(deltas); ok {
		ts = first.Timestamps
	}
	return &Spec{
		Title:      "Delta-T",
		Labels:     FormatTimestamps(ts),
		MaxTicks:   MaxTicks,
		YAxisTitle: "Delta (s)",
		Legend:     true,
		Tooltip:    TooltipSignedSeconds,
		Series:     series,
	}
}

// overlay contains one series per lap having the channel. The color is bound
// to the lap position, so a lap keeps its color across charts.
func (a *Assembler) overlay(result *model.ComparisonResult, name string) *Spec {
	series := lo.FilterMap(result.Laps, func(lap model.LapTelemetry, idx int) (Series, bool) {
		ch, ok := lap.Channel(name)
		if !ok {
			return Series{}, false
		}
		return Series{
			Label: fmt.Sprintf("Lap %d", lap.LapID),
			Data:  ch.Data,
			Style: lineStyle(PaletteColor(idx), 1.5),
		}, true
	})
	if len(series) < len(result.Laps) {
		a.log.Debug("channel missing on some laps",
			log.String("channel", name),
			log.Int("laps", len(result.Laps)),
			log.Int("series", len(series)))
	}
	return &Spec{
		Title:    name,
		Labels:   FormatTimestamps(a.axisTimestamps(result, name)),
		MaxTicks: MaxTicks,
		Legend:   true,
		Tooltip:  TooltipValue,
		Series:   series,
	}
}

func (a *Assembler) axisTimestamps(result *model.ComparisonResult, name string) []float64 {
	switch a.axisSource {
	case AxisFirstLapWithData:
		for i := range result.Laps {
			if ch, ok := result.Laps[i].Channel(name); ok {
				return ch.Timestamps
			}
		}
	case AxisFirstLapInList:
		if len(result.Laps) > 0 {
			if ch, ok := result.Laps[0].Channel(name); ok {
				return ch.Timestamps
			}
		}
	}
	return nil
}
