package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/ruminaider/selectfield/cmd/selectfield/tui"
	"github.com/ruminaider/selectfield/internal/catalog"
	"github.com/ruminaider/selectfield/internal/config"
	"github.com/ruminaider/selectfield/internal/logging"
	"github.com/ruminaider/selectfield/internal/paths"
	"github.com/ruminaider/selectfield/internal/selectfield"
	"github.com/spf13/cobra"
)

// runFlags holds the flags shared by the root command and run.
type runFlags struct {
	configPath  string
	catalog     string
	label       string
	placeholder string
	disabled    bool
	reconcile   string
	menuHeight  int
	json        bool
	logFile     string
	logLevel    string
	theme       string
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run [catalog]",
	Short: "Open the field over a catalog and print the chosen values",
	Long: "Open the field over a catalog file (YAML, JSON or TOML). Ctrl+S prints " +
		"the chosen values, one per line or as JSON with --json; Ctrl+C prints nothing.",
	Args: cobra.MaximumNArgs(1),
	RunE: runField,
}

func init() {
	addRunFlags(runCmd, &runOpts)
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Config file (default: "+paths.ConfigFile()+")")
	cmd.Flags().StringVarP(&f.catalog, "catalog", "c", "", "Catalog file (default: "+paths.CatalogFile()+")")
	cmd.Flags().StringVar(&f.label, "label", "", "Field label")
	cmd.Flags().StringVar(&f.placeholder, "placeholder", "", "Search input placeholder")
	cmd.Flags().BoolVar(&f.disabled, "disabled", false, "Start with the field disabled")
	cmd.Flags().StringVar(&f.reconcile, "reconcile", "", "Catalog reload policy: retain or select-all")
	cmd.Flags().IntVar(&f.menuHeight, "menu-height", 0, "Maximum candidate rows, 0 for all")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the chosen items as JSON")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "Log file (default: "+paths.LogFile()+")")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&f.theme, "theme", "", "Palette: mocha, macchiato, frappe or latte")
}

// resolveConfig loads the config file and applies the flags that were set
// explicitly. A positional argument names the catalog.
func resolveConfig(cmd *cobra.Command, args []string, f runFlags) (config.Config, error) {
	path := f.configPath
	if path == "" {
		path = paths.ConfigFile()
	}
	cfg, err := config.Load(paths.Expand(path))
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	setField := func(key string, value any) {
		if cfg.Field == nil {
			cfg.Field = make(map[string]any)
		}
		cfg.Field[key] = value
	}
	if flags.Changed("catalog") {
		cfg.Catalog = f.catalog
	}
	if len(args) > 0 {
		cfg.Catalog = args[0]
	}
	if flags.Changed("label") {
		setField("label", f.label)
	}
	if flags.Changed("placeholder") {
		setField("placeholder", f.placeholder)
	}
	if flags.Changed("disabled") {
		setField("disabled", f.disabled)
	}
	if flags.Changed("reconcile") {
		cfg.Reconcile = f.reconcile
	}
	if flags.Changed("menu-height") {
		cfg.MenuHeight = f.menuHeight
	}
	if flags.Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("theme") {
		cfg.Theme = f.theme
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// buildOptions turns a validated config into field options. Unknown keys
// in the field section are logged and otherwise ignored.
func buildOptions(cfg config.Config, logger *slog.Logger) (selectfield.Options[string], error) {
	opts, ignored := selectfield.ParseOptions[string](cfg.Field)
	if len(ignored) > 0 {
		logger.Warn("ignoring unknown field options", "keys", ignored)
	}

	policy, ok := selectfield.ParseReconcile(cfg.Reconcile)
	if !ok {
		return opts, fmt.Errorf("%w: reconcile %q", config.ErrInvalid, cfg.Reconcile)
	}
	reopen, blur, err := cfg.Delays()
	if err != nil {
		return opts, err
	}

	opts.Reconcile = policy
	opts.ReopenDelay = reopen
	opts.BlurDelay = blur
	opts.MenuHeight = cfg.MenuHeight
	opts.Logger = logger
	return opts, nil
}

func catalogPath(cfg config.Config) string {
	if cfg.Catalog == "" {
		return paths.CatalogFile()
	}
	return paths.Expand(cfg.Catalog)
}

func runField(cmd *cobra.Command, args []string) error {
	// TTY guard: the field needs keyboard input.
	if !term.IsTerminal(os.Stdin.Fd()) {
		return errors.New("selectfield needs an interactive terminal; use 'selectfield catalog check' to validate a catalog")
	}

	cfg, err := resolveConfig(cmd, args, runOpts)
	if err != nil {
		return err
	}

	source := catalogPath(cfg)
	items, err := catalog.Load(source)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logPath := paths.LogFile()
	if cfg.LogFile != "" {
		logPath = paths.Expand(cfg.LogFile)
	}
	fileHandler, closeLog, err := logging.OpenFile(logPath, level)
	if err != nil {
		return err
	}
	defer closeLog()

	programHandler := tui.NewProgramHandler(slog.LevelWarn)
	logger := slog.New(logging.Fanout{fileHandler, programHandler})
	logger.Info("starting", "version", version, "catalog", source, "items", len(items))
	if dups := catalog.Duplicates(items); len(dups) > 0 {
		logger.Warn("catalog has duplicate values", "values", dups)
	}

	opts, err := buildOptions(cfg, logger)
	if err != nil {
		return err
	}
	theme, _ := tui.ThemeFor(cfg.Theme)

	model, err := tui.New(tui.Config{
		Items:   items,
		Options: opts,
		Source:  source,
		Theme:   theme,
		Logger:  logger,
		Loader: func() ([]catalog.Item[string], error) {
			return catalog.Load(source)
		},
	})
	if err != nil {
		return err
	}

	programOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	}
	// Keep stdout clean for the result when it is piped.
	if !term.IsTerminal(os.Stdout.Fd()) {
		programOpts = append(programOpts, tea.WithOutput(os.Stderr))
	}

	p := tea.NewProgram(model, programOpts...)
	programHandler.SetProgram(p)
	finalModel, err := p.Run()
	programHandler.SetProgram(nil)
	if err != nil {
		return err
	}

	host := finalModel.(tui.Model)
	host.Events().Close()
	if !host.Accepted() {
		logger.Info("cancelled")
		return nil
	}
	logger.Info("accepted", "chosen", len(host.Chosen()))
	return writeChosen(cmd.OutOrStdout(), host.Chosen(), host.Field().Items(), runOpts.json)
}

// writeChosen prints the chosen values one per line, or as a JSON array of
// items when asJSON is set.
func writeChosen(w io.Writer, chosen []string, items []catalog.Item[string], asJSON bool) error {
	if !asJSON {
		for _, v := range chosen {
			if _, err := fmt.Fprintln(w, v); err != nil {
				return err
			}
		}
		return nil
	}

	out := make([]catalog.Item[string], 0, len(chosen))
	for _, v := range chosen {
		item, ok := catalog.Lookup(items, v)
		if !ok {
			item = catalog.Item[string]{Value: v, DisplayText: v}
		}
		out = append(out, item)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
