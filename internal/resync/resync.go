// Package resync keeps the session's video and narration-audio files
// consistent with the logical crop-gap list.
//
// When a crop commits, the resynchroniser computes the ordered keep
// ranges in media time, hands them to an external compositor, and
// atomically swaps the new file in. A single rolling backup of each
// pristine file is created lazily before the first destructive edit;
// composition always runs from that backup so repeated crops stay
// correct, and the backup is reclaimed once no crop gaps remain.
//
// This is the only component that leaves the single-threaded event
// loop: the compose runs on a background goroutine and its outcome is
// reported back over the bus. One resynchronisation may be in flight at
// a time per session; concurrent requests fail with ErrInFlight.
package resync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jpl-au/revu/internal/bus"
	"github.com/jpl-au/revu/internal/gaps"
	"github.com/jpl-au/revu/internal/timemap"
)

// ErrInFlight is returned when a resynchronisation is already running
// for this session.
var ErrInFlight = errors.New("media resynchronization already in flight")

// DefaultSuppressDelay is how long after the file swap the playhead
// keeps ignoring player position callbacks, hiding the seek jump.
const DefaultSuppressDelay = 300 * time.Millisecond

// Range is a keep range in media seconds.
type Range struct {
	Start float64
	End   float64
}

// Compositor concatenates time ranges of a source media file into a new
// file. It is the external re-encode black box.
type Compositor interface {
	Compose(ctx context.Context, source string, keep []Range) (string, error)
}

// Player is the slice of the media player needed to restore position
// after a swap.
type Player interface {
	Seek(seconds float64)
	CurrentTime() float64
}

// Suppressor mutes player position callbacks while files are swapped
// underneath the player. Matched by playhead.Controller.
type Suppressor interface {
	Position() int64
	Suppress(on bool)
}

// Options configures a Resynchronizer.
type Options struct {
	Compositor Compositor
	Player     Player
	Playhead   Suppressor
	Bus        bus.Publisher

	// Files are the media files to keep in sync: the primary video and,
	// when present, the narration audio.
	Files []string

	// DurationOf returns the duration in seconds of a media file.
	// Required when Files is non-empty.
	DurationOf func(path string) (float64, error)

	// SuppressDelay overrides DefaultSuppressDelay.
	SuppressDelay time.Duration
}

// Resynchronizer orchestrates background media re-composition.
type Resynchronizer struct {
	reg    *gaps.Registry
	mapper *timemap.Mapper
	opts   Options

	mu       sync.Mutex
	inFlight bool
	done     chan struct{}
}

// New creates a resynchroniser over the registry and mapper.
func New(reg *gaps.Registry, mapper *timemap.Mapper, opts Options) *Resynchronizer {
	if opts.SuppressDelay <= 0 {
		opts.SuppressDelay = DefaultSuppressDelay
	}
	return &Resynchronizer{reg: reg, mapper: mapper, opts: opts}
}

// KeepRanges computes the ordered media-time ranges that survive all
// current crop gaps, for a source file of the given duration. Crop
// boundaries are converted from event time to media time against the
// pristine recording, which still contains every cropped range.
func (r *Resynchronizer) KeepRanges(mediaDuration float64) []Range {
	crops := r.reg.Crops()
	if len(crops) == 0 {
		return []Range{{Start: 0, End: mediaDuration}}
	}

	var keep []Range
	cursor := 0.0
	for _, g := range crops {
		start := r.mapper.EventTimeToMediaTime(g.Start)
		end := r.mapper.EventTimeToMediaTime(g.End)
		if start > cursor {
			keep = append(keep, Range{Start: cursor, End: min(start, mediaDuration)})
		}
		if end > cursor {
			cursor = end
		}
	}
	if cursor < mediaDuration {
		keep = append(keep, Range{Start: cursor, End: mediaDuration})
	}
	return keep
}

// CommitCrop starts a background re-composition of every media file
// against the current crop list. Returns ErrInFlight if one is already
// running. The outcome is reported per file as ResyncFinished or
// MediaDiverged bus events; Wait blocks until completion.
func (r *Resynchronizer) CommitCrop() error {
	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return ErrInFlight
	}
	r.inFlight = true
	r.done = make(chan struct{})
	r.mu.Unlock()

	if r.opts.Playhead != nil {
		r.opts.Playhead.Suppress(true)
	}
	go r.run(context.Background())
	return nil
}

// Wait blocks until the in-flight resynchronisation (if any) completes.
func (r *Resynchronizer) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

// InFlight reports whether a resynchronisation is running.
func (r *Resynchronizer) InFlight() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight
}

// run performs the composition for every file, then restores the player
// position and lifts suppression after a short delay. Runs on its own
// goroutine; it touches no shared timeline state, only files and the
// player.
func (r *Resynchronizer) run(ctx context.Context) {
	defer r.finish()

	var pos int64
	if r.opts.Playhead != nil {
		pos = r.opts.Playhead.Position()
	}

	for _, file := range r.opts.Files {
		r.publish(bus.ResyncStarted{File: file})
		err := r.composeFile(ctx, file)
		if err != nil {
			// Original file untouched; logical state and media now
			// diverge until a retry succeeds. Non-fatal.
			r.publish(bus.MediaDiverged{File: file, Reason: err.Error()})
		}
		r.publish(bus.ResyncFinished{File: file, Err: errString(err)})
	}

	if r.opts.Player != nil {
		r.opts.Player.Seek(r.mapper.EventTimeToPlaybackTime(pos))
	}
	if r.opts.Playhead != nil {
		time.Sleep(r.opts.SuppressDelay)
		r.opts.Playhead.Suppress(false)
	}
}

func (r *Resynchronizer) composeFile(ctx context.Context, file string) error {
	if err := EnsureBackup(file); err != nil {
		return fmt.Errorf("backup %s: %w", file, err)
	}
	src := BackupPath(file)

	dur, err := r.opts.DurationOf(src)
	if err != nil {
		return fmt.Errorf("probe %s: %w", src, err)
	}

	out, err := r.opts.Compositor.Compose(ctx, src, r.KeepRanges(dur))
	if err != nil {
		return fmt.Errorf("compose %s: %w", file, err)
	}
	if err := Swap(out, file); err != nil {
		return fmt.Errorf("swap %s: %w", file, err)
	}
	return nil
}

func (r *Resynchronizer) finish() {
	r.mu.Lock()
	r.inFlight = false
	done := r.done
	r.mu.Unlock()
	close(done)
}

// RestoreOriginal puts the backup files back, called when a crop is
// undone. Synchronous: restoring is a local copy, not a re-encode. If
// the crop-gap list is now empty the backups are deleted, reclaiming
// space - the backup's lifecycle is coupled to gap-list emptiness.
func (r *Resynchronizer) RestoreOriginal() error {
	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return ErrInFlight
	}
	r.mu.Unlock()

	var firstErr error
	for _, file := range r.opts.Files {
		if err := RestoreBackup(file); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("restore %s: %w", file, err)
		}
		if len(r.reg.Crops()) == 0 {
			RemoveBackup(file)
		}
	}
	return firstErr
}

func (r *Resynchronizer) publish(e bus.Event) {
	if r.opts.Bus != nil {
		r.opts.Bus.Publish(e)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
