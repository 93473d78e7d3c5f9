// Package main provides the CLI entrypoint for keytrace.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"keytrace/internal/config"
	"keytrace/internal/keylog"
	"keytrace/internal/layout"
	"keytrace/internal/report"
	"keytrace/internal/statsui"
	"keytrace/internal/svg"
)

const (
	defaultKeymap = "default"
	defaultTop    = 10
)

var (
	qmkRoot        string
	keyboardName   string
	keymapName     string
	renderOptsPath string

	statsLog              string
	statsTop              int
	statsTUI              bool
	statsIncludeCombos    bool
	statsSkipUnresolvable bool

	renderOutput string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keytrace",
		Short:         "Keymap ergonomics analyzer for QMK keyboards",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&qmkRoot, "qmk-root", "", "path to the QMK firmware checkout")
	rootCmd.PersistentFlags().StringVar(&keyboardName, "keyboard", "", "keyboard name under keyboards/")
	rootCmd.PersistentFlags().StringVar(&keymapName, "keymap", defaultKeymap, "keymap name")
	rootCmd.PersistentFlags().StringVar(&renderOptsPath, "render-opts", "", "render options JSON (default: render.json next to the keymap)")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Analyze a firmware keystroke log",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLog, "log", "", "keystroke log file (required)")
	cmd.Flags().IntVar(&statsTop, "top", defaultTop, "number of bigrams in top listings")
	cmd.Flags().BoolVar(&statsTUI, "tui", false, "browse statistics interactively")
	cmd.Flags().BoolVar(&statsIncludeCombos, "include-combos", true, "start the TUI with combo bigrams included")
	cmd.Flags().BoolVar(&statsSkipUnresolvable, "skip-unresolvable", false, "skip log records the keymap cannot resolve instead of failing")
	if err := cmd.MarkFlagRequired("log"); err != nil {
		panic(err)
	}
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "top", &statsTop, fileCfg.Stats.Top)
	applyBoolConfig(cmd, "include-combos", &statsIncludeCombos, fileCfg.Stats.IncludeCombos)
	applyBoolConfig(cmd, "skip-unresolvable", &statsSkipUnresolvable, fileCfg.Stats.SkipUnresolvable)
	if statsTop <= 0 {
		return fmt.Errorf("--top must be > 0")
	}

	input, err := loadInput(cmd, fileCfg)
	if err != nil {
		return err
	}

	resolver := &keylog.Resolver{
		Keymap:           input.Keymap,
		SkipUnresolvable: statsSkipUnresolvable,
		Log:              slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
	stats, err := keylog.StatsFromFile(resolver, statsLog)
	if err != nil {
		return fmt.Errorf("failed to analyze keylog: %w", err)
	}

	if statsTUI {
		model := statsui.NewModel(stats, statsTop, statsIncludeCombos)
		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	return report.Write(cmd.OutOrStdout(), stats, report.Options{Top: statsTop})
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render layer, legend, and combo SVGs",
		Args:  cobra.NoArgs,
		RunE:  runRenderCmd,
	}
	cmd.Flags().StringVar(&renderOutput, "output", "images", "output directory")
	return cmd
}

func runRenderCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	input, err := loadInput(cmd, fileCfg)
	if err != nil {
		return err
	}

	renderer := &svg.Renderer{Keymap: input.Keymap, Opts: input.Opts}
	if err := renderer.RenderAll(renderOutput); err != nil {
		return fmt.Errorf("failed to render svgs: %w", err)
	}
	return nil
}

// loadInput merges flags with the config file and parses the layout
// sources.
func loadInput(cmd *cobra.Command, fileCfg config.FileConfig) (*layout.Input, error) {
	applyStringConfig(cmd, "qmk-root", &qmkRoot, fileCfg.Keymap.QMKRoot)
	applyStringConfig(cmd, "keyboard", &keyboardName, fileCfg.Keymap.Keyboard)
	applyStringConfig(cmd, "keymap", &keymapName, fileCfg.Keymap.Keymap)
	applyStringConfig(cmd, "render-opts", &renderOptsPath, fileCfg.Keymap.RenderOpts)

	if qmkRoot == "" {
		return nil, fmt.Errorf("--qmk-root is required (flag or config)")
	}
	if keyboardName == "" {
		return nil, fmt.Errorf("--keyboard is required (flag or config)")
	}

	settings := layout.Settings{
		QMKRoot:  qmkRoot,
		Keyboard: keyboardName,
		Keymap:   keymapName,
	}
	optsPath := renderOptsPath
	if optsPath == "" {
		optsPath = settings.RenderOptsJSON()
	}

	return layout.LoadInput(layout.NewParser(), settings, optsPath)
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
	return fmt.Sprintf(`# keytrace configuration
# Uncomment a value to enable it. CLI flags override config values.

[keymap]
# qmk-root = "~/src/qmk_firmware"   # QMK firmware checkout
# keyboard = "cybershard"           # Keyboard under keyboards/
# keymap = %q                # Keymap name
# render-opts = ""                  # Render options JSON path

[stats]
# top = %d                          # Bigrams in top listings
# include-combos = true             # Start the TUI with combo bigrams included
# skip-unresolvable = false         # Skip records the keymap cannot resolve
`,
		defaultKeymap,
		defaultTop,
	)
}
