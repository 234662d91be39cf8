// Package input parses the lap id list entered by the user.
package input

import (
	"errors"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// MinLaps is the number of lap ids needed for a comparison.
const MinLaps = 2

var ErrTooFewLaps = errors.New("enter at least 2 lap IDs separated by commas")

type Mode int

const (
	// ModeDropFalsy drops entries without a leading integer and entries
	// parsing to 0. This matches the behavior of the web client.
	ModeDropFalsy Mode = iota
	// ModeDropInvalid only drops entries without a leading integer, so lap 0
	// can be compared.
	ModeDropInvalid
)

// ParseLapIDs splits raw at commas and parses the leading integer of each
// trimmed entry ("12abc" -> 12, "0x1A" -> 26, "abc" -> dropped). Order is kept, duplicates
// are not removed.
func ParseLapIDs(raw string, mode Mode) []int {
	return lo.FilterMap(strings.Split(raw, ","), func(item string, _ int) (int, bool) {
		id, ok := parseLeadingInt(strings.TrimSpace(item))
		if !ok {
			return 0, false
		}
		if mode == ModeDropFalsy && id == 0 {
			return 0, false
		}
		return id, true
	})
}

// ParseComparison parses raw and returns ErrTooFewLaps if less than MinLaps
// ids remain.
func ParseComparison(raw string, mode Mode) ([]int, error) {
	ids := ParseLapIDs(raw, mode)
	if len(ids) < MinLaps {
		return ids, ErrTooFewLaps
	}
	return ids, nil
}

// parseLeadingInt reads an optional sign followed by decimal digits, or by
// "0x" and hex digits. Anything after the digits is ignored. Values outside
// the int range are invalid since they cannot name a lap.
func parseLeadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	sign := s[:end]
	base, isDigit := 10, isDecimal
	if len(s) >= end+2 && s[end] == '0' && (s[end+1] == 'x' || s[end+1] == 'X') {
		base, isDigit = 16, isHex
		end += 2
	}
	digitsStart := end
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	v, err := strconv.ParseInt(sign+s[digitsStart:end], base, strconv.IntSize)
	if err != nil {
		// out of range
		return 0, false
	}
	return int(v), true
}

func isDecimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
