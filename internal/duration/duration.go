// Package duration provides parsing for human-readable playback positions.
//
// Users specify points on the timeline as "90" (seconds), "1:30" or
// "1:30.250" (minutes:seconds), or Go-style durations like "1m30s". This
// matches common media-tool conventions and is more intuitive than raw
// microsecond timestamps for crop --from/--to and similar arguments.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var clockRe = regexp.MustCompile(`^(?:(\d+):)?(\d+):(\d+(?:\.\d+)?)$`)

// Parse parses a playback position into a duration from the start of
// playback. Accepted forms: "90", "90.5", "1:30", "1:30.250",
// "1:02:03", and Go durations like "1m30s".
func Parse(s string) (time.Duration, error) {
	if m := clockRe.FindStringSubmatch(s); m != nil {
		var h int
		if m[1] != "" {
			h, _ = strconv.Atoi(m[1])
		}
		min, _ := strconv.Atoi(m[2])
		sec, err := strconv.ParseFloat(m[3], 64)
		if err != nil || sec >= 60 || min >= 60 && m[1] != "" {
			return 0, fmt.Errorf("invalid playback position: %s", s)
		}
		total := float64(h)*3600 + float64(min)*60 + sec
		return time.Duration(total * float64(time.Second)), nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return 0, fmt.Errorf("invalid playback position: %s (must not be negative)", s)
		}
		return time.Duration(f * float64(time.Second)), nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("invalid playback position: %s (must not be negative)", s)
		}
		return d, nil
	}

	return 0, fmt.Errorf("invalid playback position: %s (use 90, 1:30.250, or 1m30s)", s)
}

// Seconds parses a playback position and returns it in seconds.
func Seconds(s string) (float64, error) {
	d, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return d.Seconds(), nil
}
