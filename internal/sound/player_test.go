package sound

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carabina/popupkit/internal/appearance"
)

func TestNewPlayer_FromConfig(t *testing.T) {
	p := NewPlayer(appearance.SoundConfig{
		Enabled: true,
		Volume:  50,
		Present: "/sounds/pop.wav",
		Dismiss: "/sounds/close.ogg",
	}, nil)

	assert.True(t, p.Enabled())
	assert.InDelta(t, 0.5, p.Volume(), 0.001)
	assert.Equal(t, "/sounds/pop.wav", p.CuePath(CuePresent))
	assert.Equal(t, "/sounds/close.ogg", p.CuePath(CueDismiss))
}

func TestPlayer_SetVolumeClamps(t *testing.T) {
	p := NewPlayer(appearance.SoundConfig{Volume: 80}, nil)

	p.SetVolume(1.5)
	assert.Equal(t, 1.0, p.Volume())

	p.SetVolume(-0.2)
	assert.Equal(t, 0.0, p.Volume())
}

func TestPlayer_PlayCueDisabledIsNoOp(t *testing.T) {
	p := NewPlayer(appearance.SoundConfig{
		Enabled: false,
		Volume:  80,
		Present: "/does/not/exist.wav",
	}, nil)

	assert.NoError(t, p.PlayCue(CuePresent))
}

func TestPlayer_PlayCueUnconfiguredIsNoOp(t *testing.T) {
	p := NewPlayer(appearance.SoundConfig{Enabled: true, Volume: 80}, nil)

	assert.NoError(t, p.PlayCue(CueDismiss))
}

func TestPlayer_PlayMissingFileErrors(t *testing.T) {
	p := NewPlayer(appearance.SoundConfig{Enabled: true, Volume: 80}, nil)

	err := p.Play("/does/not/exist.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open sound file")
}

func TestPlayer_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cue.flac")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o644))

	p := NewPlayer(appearance.SoundConfig{Enabled: true, Volume: 80}, nil)

	err := p.Play(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported audio format")
}

func TestVolumeToDecibels(t *testing.T) {
	assert.Equal(t, -100.0, volumeToDecibels(0))
	assert.InDelta(t, -6.02, volumeToDecibels(0.5), 0.01)
	assert.InDelta(t, 0.0, volumeToDecibels(1.0), 0.001)
}
