package lap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/lapcompare/pkg/model"
	"github.com/mpapenbr/lapcompare/testsupport/basedata"
)

func TestWriteSummary(t *testing.T) {
	lap := basedata.SampleLap(12)
	lap.Channels = append(lap.Channels, model.Channel{Name: "brake", Unit: "%"})

	var buf bytes.Buffer
	assert.NoError(t, WriteSummary(&buf, &lap))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	got := make([][]string, 0, len(lines))
	for _, l := range lines {
		got = append(got, strings.Fields(l))
	}
	assert.Equal(t, [][]string{
		{"Lap", "12"},
		{"CHANNEL", "UNIT", "MIN", "MAX", "AVG"},
		{"speed", "km/h", "120.00", "150.25", "135.25"},
		{"rpm", "7000.00", "7800.00", "7400.00"},
		{"throttle", "%", "80.00", "100.00", "93.33"},
		{"brake", "%", "-", "-", "-"},
	}, got)
}
