package sound

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/carabina/popupkit/internal/appearance"
)

// Cue identifies a popup lifecycle sound.
type Cue string

const (
	// CuePresent plays when a popup becomes visible.
	CuePresent Cue = "present"
	// CueDismiss plays when a popup is torn down.
	CueDismiss Cue = "dismiss"
)

// Player decodes and plays popup sound cues. Decoded sounds are cached so
// repeated presentations do not re-read the file. Supports WAV, OGG and MP3.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	enabled bool
	volume  float64 // 0.0 to 1.0
	cues    map[Cue]string

	initialized bool
	sampleRate  beep.SampleRate

	cacheMu sync.RWMutex
	cache   map[string]*beep.Buffer
}

// NewPlayer creates a player configured from the sound section of an
// appearance. A nil logger falls back to slog.Default().
func NewPlayer(cfg appearance.SoundConfig, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}

	return &Player{
		logger:     logger,
		enabled:    cfg.Enabled,
		volume:     clampVolume(float64(cfg.Volume) / 100),
		sampleRate: beep.SampleRate(44100),
		cues: map[Cue]string{
			CuePresent: cfg.Present,
			CueDismiss: cfg.Dismiss,
		},
		cache: make(map[string]*beep.Buffer),
	}
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(volume)
	p.logger.Debug("volume set", "volume", p.volume)
}

// Volume returns the current volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Enabled reports whether cue playback is active.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// CuePath returns the file configured for a cue, or "" if unset.
func (p *Player) CuePath(cue Cue) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cues[cue]
}

// PlayCue plays the sound configured for the given cue. Disabled players and
// cues without a configured file are silent no-ops.
func (p *Player) PlayCue(cue Cue) error {
	p.mu.Lock()
	enabled := p.enabled
	path := p.cues[cue]
	p.mu.Unlock()

	if !enabled || path == "" {
		return nil
	}
	return p.Play(path)
}

// Play plays a sound file by path, loading and caching it on first use.
func (p *Player) Play(path string) error {
	if path == "" {
		return nil
	}
	path = expandHome(path)

	p.cacheMu.RLock()
	buffer, ok := p.cache[path]
	p.cacheMu.RUnlock()

	if !ok {
		var err error
		buffer, err = p.loadSound(path)
		if err != nil {
			p.logger.Warn("failed to load sound", "path", path, "error", err)
			return err
		}

		p.cacheMu.Lock()
		p.cache[path] = buffer
		p.cacheMu.Unlock()
	}

	return p.playBuffer(buffer)
}

// Preload decodes the configured cue files into the cache so the first
// presentation does not pay the decode cost.
func (p *Player) Preload() error {
	p.mu.Lock()
	enabled := p.enabled
	paths := make([]string, 0, len(p.cues))
	for _, path := range p.cues {
		if path != "" {
			paths = append(paths, expandHome(path))
		}
	}
	p.mu.Unlock()

	if !enabled {
		return nil
	}

	for _, path := range paths {
		p.cacheMu.RLock()
		_, ok := p.cache[path]
		p.cacheMu.RUnlock()
		if ok {
			continue
		}

		buffer, err := p.loadSound(path)
		if err != nil {
			return err
		}

		p.cacheMu.Lock()
		p.cache[path] = buffer
		p.cacheMu.Unlock()
		p.logger.Debug("preloaded sound", "path", path)
	}
	return nil
}

// loadSound decodes a sound file into a buffer.
func (p *Player) loadSound(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	ext := strings.ToLower(filepath.Ext(path))

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	if err := p.ensureInitialized(format.SampleRate); err != nil {
		return nil, err
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

// ensureInitialized initializes the speaker once, at the sample rate of the
// first decoded sound.
func (p *Player) ensureInitialized(sampleRate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	bufferSize := sampleRate.N(time.Millisecond * 100)
	if err := speaker.Init(sampleRate, bufferSize); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	p.sampleRate = sampleRate
	p.initialized = true
	p.logger.Debug("speaker initialized", "sample_rate", sampleRate)
	return nil
}

// playBuffer plays a buffered sound at the current volume.
func (p *Player) playBuffer(buffer *beep.Buffer) error {
	if buffer == nil {
		return nil
	}

	p.mu.Lock()
	volume := p.volume
	sampleRate := p.sampleRate
	p.mu.Unlock()

	var streamer beep.Streamer = buffer.Streamer(0, buffer.Len())

	if buffer.Format().SampleRate != sampleRate {
		streamer = beep.Resample(4, buffer.Format().SampleRate, sampleRate, streamer)
	}

	if volume < 1.0 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   volumeToDecibels(volume),
			Silent:   volume == 0,
		}
	}

	speaker.Play(streamer)
	return nil
}

// ClearCache drops all decoded sounds.
func (p *Player) ClearCache() {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	p.cache = make(map[string]*beep.Buffer)
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
	p.mu.Unlock()

	p.ClearCache()
	p.logger.Debug("sound player closed")
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// volumeToDecibels converts a linear volume (0-1) to decibels.
// 0.5 maps to roughly -6dB, 0.25 to -12dB.
func volumeToDecibels(volume float64) float64 {
	if volume <= 0 {
		return -100
	}
	return 20 * math.Log10(volume)
}
