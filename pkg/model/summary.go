package model

import (
	"github.com/shopspring/decimal"
)

// ChannelSummary holds the min/max/avg of a channel. Values are nil for empty channels.
type ChannelSummary struct {
	Name string
	Unit string
	Min  *float64
	Max  *float64
	Avg  *decimal.Decimal
}

// Summarize computes a summary per channel, keeping the channel order.
func Summarize(lap *LapTelemetry) []ChannelSummary {
	ret := make([]ChannelSummary, 0, len(lap.Channels))
	for i := range lap.Channels {
		ret = append(ret, summarizeChannel(&lap.Channels[i]))
	}
	return ret
}

func summarizeChannel(ch *Channel) ChannelSummary {
	ret := ChannelSummary{Name: ch.Name, Unit: ch.Unit}
	if len(ch.Data) == 0 {
		return ret
	}
	minVal, maxVal := ch.Data[0], ch.Data[0]
	sum := decimal.Zero
	for _, v := range ch.Data {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(ch.Data))))
	ret.Min = &minVal
	ret.Max = &maxVal
	ret.Avg = &avg
	return ret
}
