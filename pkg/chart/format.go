package chart

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// FormatTimestamps formats each value with two decimals.
func FormatTimestamps(ts []float64) []string {
	ret := make([]string, len(ts))
	for i, t := range ts {
		ret[i] = toFixed(t, 2)
	}
	return ret
}

// FormatSignedSeconds formats a delta as seconds with three decimals.
// Only positive values get an explicit sign: 0.2314 -> "+0.231s".
func FormatSignedSeconds(v float64) string {
	s := toFixed(v, 3) + "s"
	if v > 0 {
		return "+" + s
	}
	return s
}

// toFixed formats v with prec decimals. Values lying exactly halfway between
// two results are rounded away from zero, everything else to the nearest.
func toFixed(v float64, prec int) string {
	if v == 0 {
		v = 0 // no "-0.00"
	}
	if isTie(v, prec) {
		v = math.Nextafter(v, math.Copysign(math.Inf(1), v))
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func isTie(v float64, prec int) bool {
	abs := math.Abs(v)
	s := strconv.FormatFloat(abs, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 || len(s)-dot-1 != prec+1 || s[len(s)-1] != '5' {
		return false
	}
	// the shortest representation may only be close to v, e.g. 1.005
	exact, _, err := big.ParseFloat(s, 10, 1024, big.ToNearestEven)
	if err != nil {
		return false
	}
	return exact.Cmp(new(big.Float).SetFloat64(abs)) == 0
}
