package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/arnavsurve/kompas/internal/compiler/lexer"
	"github.com/arnavsurve/kompas/internal/config"
	"github.com/arnavsurve/kompas/internal/logging"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *log.Logger
)

// errReported marks failures whose diagnostics were already printed.
var errReported = errors.New("compilation failed")

var rootCmd = &cobra.Command{
	Use:   "kompas",
	Short: "Kompas: front-end for a Pascal dialect with Indonesian keywords",
	Long: `Kompas lexes, parses and checks programs written in a Pascal dialect
with Indonesian keywords (program, variabel, mulai, selesai, ...).

Commands:
  check    Run every phase and report the first error
  parse    Print the parse tree of a (.pas) source file
  tokens   Print the token stream of a (.pas) source file
  init     Scaffold a new (.pas) program
  runs     Inspect symbol tables exported with check --db
  version  Print version information
`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $KOMPAS_CONFIG, ./kompas.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every compiler phase")

	rootCmd.AddCommand(CheckCmd, ParseCmd, TokensCmd, InitCmd, RunsCmd, VersionCmd)
}

// setup loads the configuration and builds the logger before any command
// runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger = logging.NewLogger(logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Prefix: cfg.Log.Prefix,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// loadRules returns the configured token rules, or nil for the built-in
// ones.
func loadRules() (*lexer.Rules, error) {
	if cfg == nil || cfg.Lexer.Rules == "" {
		return nil, nil
	}
	rules, err := lexer.LoadRules(cfg.Lexer.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to load lexer rules: %w", err)
	}
	logger.Debug("loaded lexer rules", "path", cfg.Lexer.Rules)
	return rules, nil
}
