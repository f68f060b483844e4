// Package audio owns playback and spectrum analysis. Decoding and output go
// through beep; the Tap in the middle of the chain feeds the Analyzer.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"
)

// ErrUnsupportedFile is returned by Load for file types outside wav/mp3/flac.
var ErrUnsupportedFile = errors.New("unsupported audio file type")

const seekCooldown = 50 * time.Millisecond

// Player owns one decoded stream at a time and its speaker session.
// Load replaces the current stream; the speaker is initialized lazily and
// re-initialized when the sample rate changes.
type Player struct {
	log *zap.Logger

	tapRing int

	mu       sync.Mutex
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *Tap
	paused   bool
	initDone bool
	gen      uint64
	duration time.Duration
	position time.Duration
	lastSeek time.Time
}

func NewPlayer(tapRingSize int, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{tapRing: tapRingSize, log: log}
}

// decode opens and decodes path by extension.
func decode(path string) (*os.File, beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, beep.Format{}, err
	}
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return nil, nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return f, streamer, format, nil
}

// Load decodes path and starts playback. On any error the player keeps its
// previous state and playback does not start.
func (p *Player) Load(path string) error {
	f, streamer, format, err := decode(path)
	if err != nil {
		return err
	}

	// Chain: streamer -> tap -> ctrl.
	tap := NewTap(streamer, p.tapRing)
	ctrl := &beep.Ctrl{Streamer: tap}

	bufferSize := format.SampleRate.N(time.Second / 20)

	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case !p.initDone:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("speaker init: %w", err)
		}
		p.initDone = true
	case p.format.SampleRate != format.SampleRate:
		// Sample rate changed; the speaker has to be rebuilt.
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("speaker re-init: %w", err)
		}
	default:
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
	}

	p.closeStreamLocked()

	p.file = f
	p.streamer = streamer
	p.format = format
	p.ctrl = ctrl
	p.tap = tap
	p.paused = false
	p.duration = format.SampleRate.D(streamer.Len())
	p.position = 0
	p.gen++
	gen := p.gen

	// The callback fires on the speaker goroutine with the speaker mutex
	// held; cleanup has to hop to another goroutine to keep lock order with
	// p.mu consistent. The generation guard drops stale callbacks after a
	// newer Load.
	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		go p.finished(gen)
	})))

	p.log.Info("playback started",
		zap.String("file", filepath.Base(path)),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Duration("duration", p.duration))
	return nil
}

// finished releases the stream that just drained, unless a newer Load
// already replaced it.
func (p *Player) finished(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	p.closeStreamLocked()
	p.duration = 0
	p.position = 0
	p.log.Info("playback finished")
}

func (p *Player) closeStreamLocked() {
	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	if p.file != nil {
		_ = p.file.Close()
		p.file = nil
	}
	p.ctrl = nil
	p.tap = nil
}

// Playing reports whether a stream is loaded and not paused.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streamer != nil && !p.paused
}

// Loaded reports whether a stream is loaded, paused or not.
func (p *Player) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streamer != nil
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// TogglePause flips the pause state. No-op without a loaded stream.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.paused = !p.paused
	p.ctrl.Paused = p.paused
	speaker.Unlock()
	p.log.Debug("pause toggled", zap.Bool("paused", p.paused))
}

// Tap returns the current sample tap, nil when nothing is loaded.
func (p *Player) Tap() *Tap {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tap
}

func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Advance moves the tracked position forward by dt while playing.
// Position tracking is frame-driven, same as the render loop.
func (p *Player) Advance(dt time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil || p.paused {
		return
	}
	p.position += dt
	if p.position > p.duration {
		p.position = p.duration
	}
}

// Seek jumps to the given fraction of the stream, clamped to [0,1].
// Calls within the cooldown window are dropped to avoid seek storms while
// dragging the progress bar.
func (p *Player) Seek(fraction float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return nil
	}
	if time.Since(p.lastSeek) < seekCooldown {
		return nil
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	target := int(fraction * float64(p.streamer.Len()))
	if target >= p.streamer.Len() {
		target = p.streamer.Len() - 1
	}
	if target < 0 {
		target = 0
	}

	speaker.Lock()
	err := p.streamer.Seek(target)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	p.position = p.format.SampleRate.D(target)
	p.lastSeek = time.Now()
	return nil
}

// Close stops playback and releases the current stream.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initDone {
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
	}
	p.closeStreamLocked()
}
