package timefmt

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// FormatSeconds renders a duration in seconds as "1d 2h 3m 4s 5ms".
// Leading zero units are omitted; once a larger unit is shown every smaller
// unit down to seconds is shown too. Milliseconds appear only when nonzero.
// Zero, negative and NaN durations render as "". Milliseconds are truncated
// after rounding away float noise, see toMilliseconds.
// Pure function: No I/O, deterministic output from input
func FormatSeconds(seconds float64) string {
	if !(seconds > 0) || math.IsInf(seconds, 1) {
		return ""
	}

	remaining := toMilliseconds(seconds)
	days := remaining / msPerDay
	remaining %= msPerDay
	hours := remaining / msPerHour
	remaining %= msPerHour
	minutes := remaining / msPerMinute
	remaining %= msPerMinute
	secs := remaining / msPerSecond
	millis := remaining % msPerSecond

	var parts []string
	shown := false
	for _, unit := range []struct {
		value  int64
		suffix string
	}{
		{days, "d"},
		{hours, "h"},
		{minutes, "m"},
		{secs, "s"},
	} {
		if unit.value > 0 || shown {
			parts = append(parts, strconv.FormatInt(unit.value, 10)+unit.suffix)
			shown = true
		}
	}
	if millis > 0 {
		parts = append(parts, strconv.FormatInt(millis, 10)+"ms")
	}

	return strings.Join(parts, " ")
}

// toMilliseconds truncates seconds*1000 to whole milliseconds. The product is
// first rounded at microsecond precision so binary float noise cannot drop a
// millisecond: 1.001 becomes 1001 (plain truncation gives 1000 and "1s").
// Genuine sub-millisecond parts are still truncated: 2.0009 becomes 2000.
func toMilliseconds(seconds float64) int64 {
	micros := math.Round(seconds * 1e6)
	return int64(micros / 1e3)
}

// CapitalizeFirst upper-cases the first letter of a status such as "verified"
func CapitalizeFirst(word string) string {
	if word == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + word[size:]
}
