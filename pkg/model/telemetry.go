package model

import (
	"errors"
	"fmt"
)

var (
	ErrLengthMismatch   = errors.New("timestamps and data differ in length")
	ErrDuplicateChannel = errors.New("duplicate channel name")
)

// Channel is a named time series of one lap.
// A null unit in the API payload decodes to the empty string.
//
//nolint:tagliatelle // API uses snake_case
type Channel struct {
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	Timestamps []float64 `json:"timestamps"` // seconds (or meters on compare results)
	Data       []float64 `json:"data"`
}

func (c *Channel) Validate() error {
	if len(c.Timestamps) != len(c.Data) {
		return fmt.Errorf("channel %q: %w (%d vs %d)",
			c.Name, ErrLengthMismatch, len(c.Timestamps), len(c.Data))
	}
	return nil
}

//nolint:tagliatelle // API uses snake_case
type LapTelemetry struct {
	LapID        int       `json:"lap_id"`
	LapTimeMs    *int      `json:"lap_time_ms,omitempty"`
	SampleRateHz *float64  `json:"sample_rate_hz,omitempty"`
	Channels     []Channel `json:"channels"`
}

// Channel returns the channel with exactly this name.
func (l *LapTelemetry) Channel(name string) (*Channel, bool) {
	for i := range l.Channels {
		if l.Channels[i].Name == name {
			return &l.Channels[i], true
		}
	}
	return nil, false
}

func (l *LapTelemetry) Validate() error {
	seen := make(map[string]struct{}, len(l.Channels))
	for i := range l.Channels {
		ch := &l.Channels[i]
		if _, ok := seen[ch.Name]; ok {
			return fmt.Errorf("lap %d: %w %q", l.LapID, ErrDuplicateChannel, ch.Name)
		}
		seen[ch.Name] = struct{}{}
		if err := ch.Validate(); err != nil {
			return fmt.Errorf("lap %d: %w", l.LapID, err)
		}
	}
	return nil
}

// LapDelta holds the time gap of a comparison lap to the reference lap.
// Positive values mean the comparison lap is slower.
//
//nolint:tagliatelle // API uses snake_case
type LapDelta struct {
	ReferenceLapID  int       `json:"reference_lap_id"`
	ComparisonLapID int       `json:"comparison_lap_id"`
	Timestamps      []float64 `json:"timestamps"`
	DeltaSeconds    []float64 `json:"delta_seconds"`
}

func (d *LapDelta) Validate() error {
	if len(d.Timestamps) != len(d.DeltaSeconds) {
		return fmt.Errorf("delta lap %d vs %d: %w (%d vs %d)",
			d.ComparisonLapID, d.ReferenceLapID, ErrLengthMismatch,
			len(d.Timestamps), len(d.DeltaSeconds))
	}
	return nil
}

//nolint:tagliatelle // API uses snake_case
type ComparisonResult struct {
	Laps              []LapTelemetry `json:"laps"`
	ChannelsAvailable []string       `json:"channels_available"`
	Deltas            []LapDelta     `json:"deltas"`
}

// Validate checks the structural invariants of all laps and deltas.
func (r *ComparisonResult) Validate() error {
	for i := range r.Laps {
		if err := r.Laps[i].Validate(); err != nil {
			return err
		}
	}
	for i := range r.Deltas {
		if err := r.Deltas[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

//nolint:tagliatelle // API uses snake_case
type CompareRequest struct {
	LapIDs   []int    `json:"lap_ids"`
	Channels []string `json:"channels,omitempty"`
}
