package basedata

import (
	"github.com/mpapenbr/lapcompare/pkg/model"
)

func SampleChannel(name, unit string, values ...float64) model.Channel {
	ts := make([]float64, len(values))
	for i := range values {
		ts[i] = float64(i) * 0.25
	}
	return model.Channel{Name: name, Unit: unit, Timestamps: ts, Data: values}
}

// SampleLap returns a lap with speed, rpm and throttle channels.
func SampleLap(lapID int) model.LapTelemetry {
	return model.LapTelemetry{
		LapID: lapID,
		Channels: []model.Channel{
			SampleChannel("speed", "km/h", 120, 135.5, 150.25),
			SampleChannel("rpm", "", 7000, 7400, 7800),
			SampleChannel("throttle", "%", 100, 100, 80),
		},
	}
}

// SampleComparison compares lap 12 (reference) with lap 7. Lap 7 lacks rpm.
func SampleComparison() *model.ComparisonResult {
	ref := SampleLap(12)
	other := model.LapTelemetry{
		LapID: 7,
		Channels: []model.Channel{
			{Name: "speed", Unit: "km/h", Timestamps: []float64{0, 10, 20}, Data: []float64{118, 131, 149}},
		},
	}
	return &model.ComparisonResult{
		Laps:              []model.LapTelemetry{ref, other},
		ChannelsAvailable: []string{"speed", "rpm"},
		Deltas: []model.LapDelta{
			{
				ReferenceLapID:  12,
				ComparisonLapID: 7,
				Timestamps:      []float64{0, 10, 20},
				DeltaSeconds:    []float64{0, 0.2314, -0.0449},
			},
		},
	}
}
