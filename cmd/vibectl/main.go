// Package main provides the CLI entrypoint for vibectl.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/vibectl/internal/config"
	"github.com/verte-zerg/vibectl/internal/driver"
	"github.com/verte-zerg/vibectl/internal/haptic"
	"github.com/verte-zerg/vibectl/internal/pattern"
	"github.com/verte-zerg/vibectl/internal/report"
	"github.com/verte-zerg/vibectl/internal/store"
	"github.com/verte-zerg/vibectl/internal/tui"
	"github.com/verte-zerg/vibectl/internal/waveform"
)

const (
	defaultStrength      = "medium"
	defaultPreviewHeight = 10
	defaultSampleStepMs  = 5
	defaultHistoryLast   = 20
)

var (
	rootDriverRoot string
	rootDryRun     bool

	performStrength string
	performWait     bool

	onWait bool

	composeWait bool
	pwleWait    bool

	previewHeight int
	previewWidth  int

	historyLast int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vibectl",
		Short:         "Haptic actuator control for the aw8697 driver",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runBrowseCmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootDriverRoot, "driver-root", "", "sysfs driver directory (default: aw8697 path)")
	rootCmd.PersistentFlags().BoolVar(&rootDryRun, "dry-run", false, "print driver writes instead of touching sysfs")

	rootCmd.AddCommand(newOnCmd())
	rootCmd.AddCommand(newOffCmd())
	rootCmd.AddCommand(newPerformCmd())
	rootCmd.AddCommand(newComposeCmd())
	rootCmd.AddCommand(newPwleCmd())
	rootCmd.AddCommand(newCapsCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newPatternCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// printDriver echoes every driver write to a stream instead of sysfs.
type printDriver struct {
	out *os.File
}

func (d printDriver) WriteIndex(index int) error {
	_, err := fmt.Fprintf(d.out, "index <- %d\n", index)
	return err
}

func (d printDriver) WriteDuration(ms int) error {
	_, err := fmt.Fprintf(d.out, "duration <- %d\n", ms)
	return err
}

func (d printDriver) WriteActivate(on bool) error {
	value := 0
	if on {
		value = 1
	}
	_, err := fmt.Fprintf(d.out, "activate <- %d\n", value)
	return err
}

func (d printDriver) WritePwle(cmd string) error {
	_, err := fmt.Fprintf(d.out, "pwle <- %s\n", cmd)
	return err
}

func openVibrator(cmd *cobra.Command) (*haptic.Vibrator, error) {
	if rootDryRun {
		return haptic.New(printDriver{out: os.Stdout}), nil
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	drvCfg := driver.Config{Root: rootDriverRoot}
	if !cmd.Flags().Changed("driver-root") && fileCfg.Driver.Root != nil {
		drvCfg.Root = *fileCfg.Driver.Root
	}
	if fileCfg.Driver.IndexNode != nil {
		drvCfg.IndexNode = *fileCfg.Driver.IndexNode
	}
	if fileCfg.Driver.DurationNode != nil {
		drvCfg.DurationNode = *fileCfg.Driver.DurationNode
	}
	if fileCfg.Driver.ActivateNode != nil {
		drvCfg.ActivateNode = *fileCfg.Driver.ActivateNode
	}
	if fileCfg.Driver.PwleNode != nil {
		drvCfg.PwleNode = *fileCfg.Driver.PwleNode
	}
	dev, err := driver.NewDevice(drvCfg)
	if err != nil {
		return nil, err
	}
	return haptic.New(dev), nil
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	return st, closeFn, nil
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	vib, err := openVibrator(cmd)
	if err != nil {
		return err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	model := tui.NewModel(st, vib)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newOnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "on <duration-ms>",
		Short: "Vibrate for a fixed duration",
		Args:  cobra.ExactArgs(1),
		RunE:  runOnCmd,
	}
	cmd.Flags().BoolVar(&onWait, "wait", false, "block until playback completes")
	return cmd
}

func runOnCmd(cmd *cobra.Command, args []string) error {
	durationMs, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", args[0], err)
	}
	vib, err := openVibrator(cmd)
	if err != nil {
		return err
	}
	done, wait := completionFor(cmd, "on", onWait)
	if err := vib.On(durationMs, done); err != nil {
		return err
	}
	wait()
	return nil
}

func newOffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "off",
		Short: "Stop vibration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vib, err := openVibrator(cmd)
			if err != nil {
				return err
			}
			return vib.Off()
		},
	}
}

func newPerformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perform <effect>",
		Short: "Play a named firmware effect",
		Args:  cobra.ExactArgs(1),
		RunE:  runPerformCmd,
	}
	cmd.Flags().StringVar(&performStrength, "strength", defaultStrength, "effect strength (light, medium, strong)")
	cmd.Flags().BoolVar(&performWait, "wait", false, "block until playback completes")
	return cmd
}

func runPerformCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "strength", &performStrength, fileCfg.Play.Strength)
	applyBoolConfig(cmd, "wait", &performWait, fileCfg.Play.Wait)

	effect, err := haptic.ParseEffect(args[0])
	if err != nil {
		return err
	}
	strength, err := haptic.ParseStrength(performStrength)
	if err != nil {
		return err
	}
	vib, err := openVibrator(cmd)
	if err != nil {
		return err
	}
	done, wait := completionFor(cmd, "perform", performWait)
	durationMs, err := vib.Perform(effect, strength, done)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %d ms\n", effect, durationMs); err != nil {
		return err
	}
	wait()
	return nil
}

func newComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose <pattern.toml>",
		Short: "Play a composite pattern file",
		Args:  cobra.ExactArgs(1),
		RunE:  runComposeCmd,
	}
	cmd.Flags().BoolVar(&composeWait, "wait", false, "block until playback completes")
	return cmd
}

func runComposeCmd(cmd *cobra.Command, args []string) error {
	p, err := loadPatternFile(args[0], pattern.KindComposite)
	if err != nil {
		return err
	}
	return playPattern(cmd, p, composeWait)
}

func newPwleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pwle <pattern.toml>",
		Short: "Play a piecewise-linear envelope pattern file",
		Args:  cobra.ExactArgs(1),
		RunE:  runPwleCmd,
	}
	cmd.Flags().BoolVar(&pwleWait, "wait", false, "block until playback completes")
	return cmd
}

func runPwleCmd(cmd *cobra.Command, args []string) error {
	p, err := loadPatternFile(args[0], pattern.KindPwle)
	if err != nil {
		return err
	}
	return playPattern(cmd, p, pwleWait)
}

func loadPatternFile(path string, want pattern.Kind) (pattern.Pattern, error) {
	p, err := pattern.DecodeFile(path)
	if err != nil {
		return pattern.Pattern{}, err
	}
	if p.Kind != want {
		return pattern.Pattern{}, fmt.Errorf("%s is a %s pattern, expected %s", path, p.Kind, want)
	}
	if err := p.Validate(); err != nil {
		return pattern.Pattern{}, err
	}
	return p, nil
}

// playPattern triggers playback, records it in the history, and optionally
// blocks until the completion callback fires.
func playPattern(cmd *cobra.Command, p pattern.Pattern, waitFlag bool) error {
	vib, err := openVibrator(cmd)
	if err != nil {
		return err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	done, wait := completionFor(cmd, p.Name, waitFlag)
	switch p.Kind {
	case pattern.KindComposite:
		err = vib.Compose(p.Steps, done)
	case pattern.KindPwle:
		err = vib.ComposePwle(p.Segments, done)
	default:
		err = fmt.Errorf("unknown pattern kind %q", p.Kind)
	}
	if err != nil {
		return err
	}
	if err := st.InsertPlay(context.Background(), store.Play{
		Name:       p.Name,
		Kind:       string(p.Kind),
		DurationMs: p.DurationMs(),
	}); err != nil {
		logErrf("failed to record play: %v\n", err)
	}
	wait()
	return nil
}

// completionFor returns a completion callback and a wait function. Without
// --wait the callback is nil and wait returns immediately, matching the
// non-blocking contract of the composer.
func completionFor(cmd *cobra.Command, label string, waitFlag bool) (haptic.CompletionFunc, func()) {
	if !waitFlag {
		return nil, func() {}
	}
	doneCh := make(chan struct{})
	done := func() error {
		close(doneCh)
		return nil
	}
	wait := func() {
		<-doneCh
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: done\n", label); err != nil {
			logErrf("failed to write output: %v\n", err)
		}
	}
	return done, wait
}

func newCapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "caps",
		Short: "Show capabilities, limits, and supported effects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Capability reporting never needs the real device.
			vib := haptic.New(printDriver{out: os.Stdout})
			return report.RenderCapabilities(cmd.OutOrStdout(), vib)
		},
	}
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <pattern.toml>",
		Short: "Render a PWLE pattern's envelope as a terminal plot",
		Args:  cobra.ExactArgs(1),
		RunE:  runPreviewCmd,
	}
	cmd.Flags().IntVar(&previewHeight, "height", defaultPreviewHeight, "plot height in rows")
	cmd.Flags().IntVar(&previewWidth, "width", 0, "plot width in cells (default: terminal width)")
	return cmd
}

func runPreviewCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "height", &previewHeight, fileCfg.Preview.Height)
	applyIntConfig(cmd, "width", &previewWidth, fileCfg.Preview.Width)

	p, err := loadPatternFile(args[0], pattern.KindPwle)
	if err != nil {
		return err
	}
	env := waveform.Sample(p.Segments, defaultSampleStepMs)
	return waveform.PlotEnvelope(cmd.OutOrStdout(), p.Name, env, previewWidth, previewHeight)
}

func newPatternCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "Manage the saved pattern library",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "save <pattern.toml>",
		Short: "Validate and save a pattern file",
		Args:  cobra.ExactArgs(1),
		RunE:  runPatternSaveCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved patterns",
		Args:  cobra.NoArgs,
		RunE:  runPatternListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved pattern's source",
		Args:  cobra.ExactArgs(1),
		RunE:  runPatternShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a saved pattern",
		Args:  cobra.ExactArgs(1),
		RunE:  runPatternRmCmd,
	})
	playCmd := &cobra.Command{
		Use:   "play <name>",
		Short: "Play a saved pattern",
		Args:  cobra.ExactArgs(1),
		RunE:  runPatternPlayCmd,
	}
	playCmd.Flags().BoolVar(&composeWait, "wait", false, "block until playback completes")
	cmd.AddCommand(playCmd)
	return cmd
}

func runPatternSaveCmd(cmd *cobra.Command, args []string) error {
	p, err := pattern.DecodeFile(args[0])
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	if err := st.SavePattern(context.Background(), p); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s, %d ms)\n", p.Name, p.Kind, p.DurationMs())
	return err
}

func runPatternListCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	infos, err := st.ListPatterns(context.Background())
	if err != nil {
		return err
	}
	return report.RenderPatterns(cmd.OutOrStdout(), infos)
}

func runPatternShowCmd(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	p, err := st.GetPattern(context.Background(), args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), p.Source)
	return err
}

func runPatternRmCmd(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	if err := st.DeletePattern(context.Background(), args[0]); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return err
}

func runPatternPlayCmd(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	p, err := st.GetPattern(context.Background(), args[0])
	closeStore()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	return playPattern(cmd, p, composeWait)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent plays",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "number of plays to show (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	plays, err := st.ListPlays(context.Background(), historyLast)
	if err != nil {
		return err
	}
	return report.RenderHistory(cmd.OutOrStdout(), plays)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# vibectl configuration
# Uncomment a value to enable it. CLI flags override config values.

[driver]
# root = %q
# index-node = "index"
# duration-node = "duration"
# activate-node = "activate"
# pwle-node = "pwle"

[play]
# strength = %q          # Effect strength (light, medium, strong)
# wait = false           # Block until playback completes

[preview]
# height = %d            # Plot height in rows
# width = 0              # Plot width in cells (0: terminal width)
`,
		driver.DefaultRoot,
		defaultStrength,
		defaultPreviewHeight,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
