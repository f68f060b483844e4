package audio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV writes a minimal 16-bit stereo PCM file with n silent frames.
func writeWAV(t *testing.T, path string, sampleRate, n int) {
	t.Helper()

	var buf bytes.Buffer
	dataSize := n * 4 // 2 channels * 2 bytes

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(2)) // stereo
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*4))
	binary.Write(&buf, binary.LittleEndian, uint16(4))  // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16)) // bits

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(make([]byte, dataSize))

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.ogg")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o644))

	_, _, _, err := decode(path)
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestDecodeMissingFile(t *testing.T) {
	_, _, _, err := decode(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestDecodeCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a wav"), 0o644))

	_, _, _, err := decode(path)
	assert.Error(t, err)
}

func TestDecodeWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 44100, 4410)

	f, streamer, format, err := decode(path)
	require.NoError(t, err)
	defer f.Close()
	defer streamer.Close()

	assert.Equal(t, 44100, int(format.SampleRate))
	assert.Equal(t, 4410, streamer.Len())
}

func TestDecodeIsCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.WAV")
	writeWAV(t, path, 22050, 100)

	f, streamer, _, err := decode(path)
	require.NoError(t, err)
	_ = streamer.Close()
	_ = f.Close()
}

// A load that fails must leave the player idle: this is what keeps the
// visualization from starting when playback never did.
func TestFailedLoadDoesNotStartPlayback(t *testing.T) {
	p := NewPlayer(1024, nil)

	err := p.Load(filepath.Join(t.TempDir(), "missing.mp3"))
	require.Error(t, err)

	assert.False(t, p.Playing())
	assert.False(t, p.Loaded())
	assert.Nil(t, p.Tap())
	assert.Zero(t, p.Duration())
}

func TestSeekWithoutStreamIsNoOp(t *testing.T) {
	p := NewPlayer(1024, nil)
	assert.NoError(t, p.Seek(0.5))
	assert.Zero(t, p.Position())
}

// fakeSeeker is a silent StreamSeekCloser that records seek targets.
type fakeSeeker struct {
	length int
	pos    int
}

func (f *fakeSeeker) Stream(samples [][2]float64) (int, bool) { return 0, false }
func (f *fakeSeeker) Err() error                              { return nil }
func (f *fakeSeeker) Len() int                                { return f.length }
func (f *fakeSeeker) Position() int                           { return f.pos }
func (f *fakeSeeker) Seek(p int) error                        { f.pos = p; return nil }
func (f *fakeSeeker) Close() error                            { return nil }

// seekPlayer wires a fake stream into a player without touching the speaker
// device; Seek only needs the stream and the format.
func seekPlayer(length int) (*Player, *fakeSeeker) {
	p := NewPlayer(1024, nil)
	fake := &fakeSeeker{length: length, pos: -1}
	p.streamer = fake
	p.format.SampleRate = 100
	p.duration = p.format.SampleRate.D(length)
	return p, fake
}

func TestSeekClampsToStreamBounds(t *testing.T) {
	p, fake := seekPlayer(100)

	// Past the end: fraction clamps to 1, target to Len()-1.
	require.NoError(t, p.Seek(2.0))
	assert.Equal(t, 99, fake.pos)
	assert.Equal(t, p.format.SampleRate.D(99), p.Position())

	// Before the start: fraction clamps to 0.
	p.lastSeek = time.Now().Add(-time.Second)
	require.NoError(t, p.Seek(-1))
	assert.Equal(t, 0, fake.pos)
	assert.Zero(t, p.Position())
}

func TestSeekCooldownDropsRapidSeeks(t *testing.T) {
	p, fake := seekPlayer(100)

	require.NoError(t, p.Seek(1.0))
	require.Equal(t, 99, fake.pos)

	// Within the cooldown window the seek is silently dropped.
	require.NoError(t, p.Seek(0))
	assert.Equal(t, 99, fake.pos)
	assert.Equal(t, p.format.SampleRate.D(99), p.Position())

	// Once the cooldown has passed the next seek goes through.
	p.lastSeek = time.Now().Add(-2 * seekCooldown)
	require.NoError(t, p.Seek(0))
	assert.Equal(t, 0, fake.pos)
}

func TestTogglePauseWithoutStreamIsNoOp(t *testing.T) {
	p := NewPlayer(1024, nil)
	p.TogglePause()
	assert.False(t, p.Paused())
}

func TestAdvanceWithoutStreamIsNoOp(t *testing.T) {
	p := NewPlayer(1024, nil)
	p.Advance(time.Second / 60)
	assert.Zero(t, p.Position())
}
