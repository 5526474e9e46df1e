// ffmpeg.go shells out to ffmpeg/ffprobe as the default compositor for
// CLI use. Tests and embedders substitute their own Compositor; this
// file is the only place that touches an external binary.

package resync

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// FFmpegCompositor concatenates keep ranges of a media file by invoking
// ffmpeg with a trim/concat filter graph.
type FFmpegCompositor struct {
	// Bin is the ffmpeg binary; defaults to "ffmpeg" on PATH.
	Bin string
}

// Compose writes the concatenation of keep ranges of source to a new
// file beside it and returns the new file's path. The source file is
// never modified. The filter graph is built from the source's actual
// stream layout: a narration audio file gets an audio-only graph, a
// silent screen capture a video-only one.
func (c FFmpegCompositor) Compose(ctx context.Context, source string, keep []Range) (string, error) {
	bin := c.Bin
	if bin == "" {
		bin = "ffmpeg"
	}

	hasVideo, hasAudio, err := probeStreams(ctx, source)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(source)
	out := strings.TrimSuffix(source, ext) + "_composed" + ext

	filter, maps := concatFilter(keep, hasVideo, hasAudio)
	args := []string{"-y", "-i", source, "-filter_complex", filter}
	for _, m := range maps {
		args = append(args, "-map", m)
	}
	args = append(args, out)

	cmd := exec.CommandContext(ctx, bin, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg: %w: %s", err, tail(string(output)))
	}
	return out, nil
}

// concatFilter builds the trim/concat filter graph for the streams the
// source actually has, plus the -map arguments for its outputs.
func concatFilter(keep []Range, hasVideo, hasAudio bool) (string, []string) {
	var filter strings.Builder
	for i, r := range keep {
		if hasVideo {
			fmt.Fprintf(&filter, "[0:v]trim=start=%f:end=%f,setpts=PTS-STARTPTS[v%d];", r.Start, r.End, i)
		}
		if hasAudio {
			fmt.Fprintf(&filter, "[0:a]atrim=start=%f:end=%f,asetpts=PTS-STARTPTS[a%d];", r.Start, r.End, i)
		}
	}
	for i := range keep {
		if hasVideo {
			fmt.Fprintf(&filter, "[v%d]", i)
		}
		if hasAudio {
			fmt.Fprintf(&filter, "[a%d]", i)
		}
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=%s:a=%s", len(keep), flag(hasVideo), flag(hasAudio))

	var maps []string
	if hasVideo {
		filter.WriteString("[outv]")
		maps = append(maps, "[outv]")
	}
	if hasAudio {
		filter.WriteString("[outa]")
		maps = append(maps, "[outa]")
	}
	return filter.String(), maps
}

func flag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

// probeStreams reports whether the file carries video and audio streams.
func probeStreams(ctx context.Context, path string) (video, audio bool, err error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "stream=codec_type",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return false, false, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	for _, line := range strings.Fields(string(out)) {
		switch line {
		case "video":
			video = true
		case "audio":
			audio = true
		}
	}
	if !video && !audio {
		return false, false, fmt.Errorf("ffprobe %s: no video or audio streams", path)
	}
	return video, audio, nil
}

// ProbeDuration returns a media file's duration in seconds via ffprobe.
// Suitable as Options.DurationOf for CLI use.
func ProbeDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: parse duration: %w", path, err)
	}
	return dur, nil
}

// tail returns the last few lines of command output for error messages.
func tail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
	}
	return strings.Join(lines, "\n")
}
