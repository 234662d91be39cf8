package chart

import (
	"context"
	"fmt"

	"github.com/mpapenbr/lapcompare/log"
	"github.com/mpapenbr/lapcompare/pkg/model"
)

type ChannelRenderer struct {
	surface Surface
	log     *log.Logger
}

type ChannelRendererOption func(r *ChannelRenderer)

func WithRendererLogger(l *log.Logger) ChannelRendererOption {
	return func(r *ChannelRenderer) {
		r.log = l
	}
}

func NewChannelRenderer(surface Surface, opts ...ChannelRendererOption) *ChannelRenderer {
	ret := &ChannelRenderer{
		surface: surface,
		log:     log.Default().Named("chart.channel"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Render replaces the charts of the surface with one chart per channel.
func (r *ChannelRenderer) Render(ctx context.Context, lap *model.LapTelemetry) error {
	if err := r.surface.Clear(); err != nil {
		return fmt.Errorf("clear surface: %w", err)
	}
	specs := ChannelCharts(lap)
	for _, spec := range specs {
		if _, err := r.surface.Add(ctx, spec); err != nil {
			return fmt.Errorf("add chart %q: %w", spec.Title, err)
		}
	}
	r.log.Debug("rendered lap",
		log.Int("lap", lap.LapID),
		log.Int("charts", len(specs)))
	return nil
}

// ChannelCharts builds one chart per channel of lap, in channel order.
func ChannelCharts(lap *model.LapTelemetry) []*Spec {
	ret := make([]*Spec, 0, len(lap.Channels))
	for i := range lap.Channels {
		ch := &lap.Channels[i]
		ret = append(ret, &Spec{
			Title:    channelTitle(ch),
			Labels:   FormatTimestamps(ch.Timestamps),
			MaxTicks: MaxTicks,
			Tooltip:  TooltipValue,
			Series: []Series{{
				Label: ch.Name,
				Data:  ch.Data,
				Style: lineStyle(PaletteColor(i), 1.5),
			}},
		})
	}
	return ret
}

func channelTitle(ch *model.Channel) string {
	if ch.Unit == "" {
		return ch.Name
	}
	return fmt.Sprintf("%s (%s)", ch.Name, ch.Unit)
}
