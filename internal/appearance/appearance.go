// Package appearance handles popup appearance configuration loading and parsing.
package appearance

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "150ms", "1s", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Try parsing as integer (milliseconds) for backwards compatibility
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '150ms', '1s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Anchor identifies the edge or center of the parent region the popup
// container is pinned to.
type Anchor string

const (
	AnchorCenter Anchor = "center"
	AnchorLeft   Anchor = "left"
	AnchorRight  Anchor = "right"
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
)

// ValidAnchors returns all valid anchor values.
func ValidAnchors() []Anchor {
	return []Anchor{AnchorCenter, AnchorLeft, AnchorRight, AnchorTop, AnchorBottom}
}

// TransitionStyle selects how the container animates in and out.
type TransitionStyle string

const (
	TransitionPlain TransitionStyle = "plain"
	TransitionFade  TransitionStyle = "fade"
	TransitionZoom  TransitionStyle = "zoom"
	TransitionSlide TransitionStyle = "slide"
)

// ValidTransitionStyles returns all valid transition styles.
func ValidTransitionStyles() []TransitionStyle {
	return []TransitionStyle{TransitionPlain, TransitionFade, TransitionZoom, TransitionSlide}
}

// SlideDirection is the edge a slide transition enters from.
type SlideDirection string

const (
	SlideFromTop    SlideDirection = "top"
	SlideFromBottom SlideDirection = "bottom"
	SlideFromLeft   SlideDirection = "left"
	SlideFromRight  SlideDirection = "right"
)

// Padding is the spacing between the container and the parent edges,
// consulted only for the edge the container is anchored to.
type Padding struct {
	Top    int `toml:"top" yaml:"top"`
	Left   int `toml:"left" yaml:"left"`
	Bottom int `toml:"bottom" yaml:"bottom"`
	Right  int `toml:"right" yaml:"right"`
}

// TransitionConfig contains enter/exit animation settings.
type TransitionConfig struct {
	Enabled     bool            `toml:"enabled" yaml:"enabled"`
	Style       TransitionStyle `toml:"style" yaml:"style"`
	Direction   SlideDirection  `toml:"direction" yaml:"direction"` // Used by the slide style only
	InDuration  Duration        `toml:"in_duration" yaml:"in_duration"`
	OutDuration Duration        `toml:"out_duration" yaml:"out_duration"`
}

// BackdropConfig contains backdrop dimming settings.
type BackdropConfig struct {
	Dim bool `toml:"dim" yaml:"dim"`
}

// SoundConfig contains optional present/dismiss sound cue settings.
type SoundConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Volume  int    `toml:"volume" yaml:"volume"` // 0-100
	Present string `toml:"present" yaml:"present"`
	Dismiss string `toml:"dismiss" yaml:"dismiss"`
}

// Appearance is the settings object for one popup presentation: anchor
// position, padding, size multipliers, animation toggles and the
// touch-outside-to-dismiss toggle.
//
// It is a plain holder with no side effects. Multipliers are not validated;
// a value outside (0, 1] produces degenerate layout and is the caller's
// responsibility. Mutation after the popup's view has loaded has no effect
// on already-bound constraints.
type Appearance struct {
	Anchor              Anchor           `toml:"anchor" yaml:"anchor"`
	Padding             Padding          `toml:"padding" yaml:"padding"`
	WidthMultiplier     float64          `toml:"width_multiplier" yaml:"width_multiplier"`
	HeightMultiplier    float64          `toml:"height_multiplier" yaml:"height_multiplier"`
	TouchOutsideDismiss bool             `toml:"touch_outside_dismiss" yaml:"touch_outside_dismiss"`
	Shadow              bool             `toml:"shadow" yaml:"shadow"`
	Backdrop            BackdropConfig   `toml:"backdrop" yaml:"backdrop"`
	Transition          TransitionConfig `toml:"transition" yaml:"transition"`
	Sound               SoundConfig      `toml:"sound" yaml:"sound"`
}

// New returns an Appearance with default values, independent of the
// process-wide default instance.
func New() *Appearance {
	return &Appearance{
		Anchor: AnchorCenter,
		Padding: Padding{
			Top:    2,
			Left:   4,
			Bottom: 2,
			Right:  4,
		},
		WidthMultiplier:     0.6,
		HeightMultiplier:    0.5,
		TouchOutsideDismiss: true,
		Shadow:              true,
		Backdrop: BackdropConfig{
			Dim: true,
		},
		Transition: TransitionConfig{
			Enabled:     true,
			Style:       TransitionFade,
			Direction:   SlideFromBottom,
			InDuration:  Duration(300 * time.Millisecond),
			OutDuration: Duration(250 * time.Millisecond),
		},
		Sound: SoundConfig{
			Enabled: false,
			Volume:  80,
		},
	}
}

var (
	defaultMu       sync.Mutex
	defaultInstance *Appearance
)

// Default returns the process-wide default appearance instance. Callers may
// mutate it before presenting to change the defaults for every subsequent
// popup that does not carry its own instance.
func Default() *Appearance {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultInstance == nil {
		defaultInstance = New()
	}
	return defaultInstance
}

// Clone returns a copy of the appearance for per-instance overrides.
func (a *Appearance) Clone() *Appearance {
	c := *a
	return &c
}

// ConfigPath returns the path to the appearance config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "popupkit", "appearance.toml")
}

// Load loads an appearance from the specified path. If path is empty, the
// default config path is used. Returns the defaults if the file does not
// exist.
func Load(path string) (*Appearance, error) {
	if path == "" {
		path = ConfigPath()
	}

	a := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return a, nil
		}
		return nil, fmt.Errorf("failed to read appearance file: %w", err)
	}

	if err := toml.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("failed to parse appearance file: %w", err)
	}

	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("invalid appearance: %w", err)
	}

	return a, nil
}

// Save writes the appearance to the specified path, creating parent
// directories if needed. The write is atomic via a temp file.
func (a *Appearance) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal appearance: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write appearance file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks the enum-valued fields. Multipliers and paddings are
// deliberately not validated; see the Appearance doc comment.
func (a *Appearance) Validate() error {
	validAnchor := false
	for _, v := range ValidAnchors() {
		if a.Anchor == v {
			validAnchor = true
			break
		}
	}
	if !validAnchor {
		return fmt.Errorf("invalid anchor %q, must be one of: %v", a.Anchor, ValidAnchors())
	}

	validStyle := false
	for _, v := range ValidTransitionStyles() {
		if a.Transition.Style == v {
			validStyle = true
			break
		}
	}
	if !validStyle {
		return fmt.Errorf("invalid transition style %q, must be one of: %v", a.Transition.Style, ValidTransitionStyles())
	}

	if a.Sound.Volume < 0 || a.Sound.Volume > 100 {
		return fmt.Errorf("sound volume must be between 0 and 100, got %d", a.Sound.Volume)
	}

	return nil
}
