package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/carabina/popupkit/internal/appearance"
	"github.com/carabina/popupkit/internal/container"
	"github.com/carabina/popupkit/internal/popup"
	"github.com/carabina/popupkit/internal/remote"
	"github.com/carabina/popupkit/internal/signal"
	"github.com/carabina/popupkit/internal/sound"
	"github.com/carabina/popupkit/internal/tui"
)

var demoOpts struct {
	message string
	anchor  string
	style   string
	width   float64
	height  float64
	remote  bool
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Present a demo popup",
	Long: `Present a demo popup over a sample backdrop.

Key bindings:
  enter, y    Dismiss with a positive outcome
  esc, n      Dismiss with a negative outcome

Clicking outside the popup dismisses it with a negative outcome unless
touch-outside-dismiss is disabled in the appearance file.

With --remote, the popup also listens on the session bus; another process
can dismiss it:

  busctl --user call com.carabina.PopupKit /com/carabina/PopupKit1 \
    com.carabina.PopupKit1 DismissPositive 'a{sv}' 0`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVarP(&demoOpts.message, "message", "m",
		"Apply these changes?", "Popup message text")
	demoCmd.Flags().StringVar(&demoOpts.anchor, "anchor", "",
		"Anchor position (center, left, right, top, bottom)")
	demoCmd.Flags().StringVar(&demoOpts.style, "style", "",
		"Transition style (plain, fade, zoom, slide)")
	demoCmd.Flags().Float64Var(&demoOpts.width, "width", 0,
		"Width as a fraction of the parent (overrides appearance)")
	demoCmd.Flags().Float64Var(&demoOpts.height, "height", 0,
		"Height as a fraction of the parent (overrides appearance)")
	demoCmd.Flags().BoolVar(&demoOpts.remote, "remote", false,
		"Accept dismissal over D-Bus")
}

func runDemo(cmd *cobra.Command, args []string) error {
	a, err := demoAppearance()
	if err != nil {
		return err
	}

	player := sound.NewPlayer(a.Sound, logger)
	defer player.Close()
	if err := player.Preload(); err != nil {
		logger.Warn("failed to preload sound cues", "error", err)
	}

	start := time.Now()
	var outcome string
	c := popup.New(
		container.StringContent(demoOpts.message+"\n\n[enter] yes    [esc] no"),
		func(signal.Payload) { outcome = "negative" },
		func(signal.Payload) { outcome = "positive" },
	)
	c.SetAppearance(a)
	c.SetLogger(logger)

	if demoOpts.remote {
		bridge := remote.NewBridge(nil, logger)
		if err := bridge.Start(); err != nil {
			return fmt.Errorf("failed to start D-Bus bridge: %w", err)
		}
		defer func() { _ = bridge.Stop() }()
	}

	if err := player.PlayCue(sound.CuePresent); err != nil {
		logger.Warn("failed to play present cue", "error", err)
	}

	if err := tui.Run(c, demoBackdrop{}); err != nil {
		return err
	}

	if err := player.PlayCue(sound.CueDismiss); err != nil {
		logger.Warn("failed to play dismiss cue", "error", err)
	}

	if outcome == "" {
		outcome = "none"
	}
	fmt.Printf("outcome: %s (presented %s)\n", outcome, humanize.Time(start))
	return nil
}

// demoAppearance clones the loaded appearance and applies flag overrides.
func demoAppearance() (*appearance.Appearance, error) {
	a := getAppearance().Clone()

	if demoOpts.anchor != "" {
		a.Anchor = appearance.Anchor(demoOpts.anchor)
	}
	if demoOpts.style != "" {
		a.Transition.Style = appearance.TransitionStyle(demoOpts.style)
	}
	if demoOpts.width > 0 {
		a.WidthMultiplier = demoOpts.width
	}
	if demoOpts.height > 0 {
		a.HeightMultiplier = demoOpts.height
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// demoBackdrop renders a filler parent view for the popup to overlay.
type demoBackdrop struct{}

func (demoBackdrop) View() string {
	line := strings.Repeat("· ", 60)
	rows := make([]string, 40)
	for i := range rows {
		rows[i] = line
	}
	rows[1] = "  popupkit demo: press enter or esc"
	return strings.Join(rows, "\n")
}
