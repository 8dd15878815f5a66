package cli

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/ordergraph/internal/config"
	"github.com/roach88/ordergraph/internal/gate"
	"github.com/roach88/ordergraph/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	LogLevel   string
	Database   string

	// Config and Logger are resolved before any subcommand runs.
	Config *config.Config
	Logger zerolog.Logger

	viper *viper.Viper
	ids   gate.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ordergraph CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{viper: config.New()})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ordergraph",
		Short: "ordergraph - order item dependency validator",
		Long: `Validate the dependency graphs of order documents.

Every item of an order may rely on other items of the same order. An order
is accepted when it has a start item, an end item, no dangling references
and no dependency cycles.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.ConfigFile, "config", "", "config file (default ./ordergraph.yaml)")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error|disabled)")
	flags.StringVar(&opts.Database, "db", "", "path to the SQLite audit database")

	_ = opts.viper.BindPFlag(config.KeyFormat, flags.Lookup("format"))
	_ = opts.viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = opts.viper.BindPFlag(config.KeyDB, flags.Lookup("db"))

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve merges flags, environment and config file, then sets up logging.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	// Validate format flag
	if !isValidFormat(o.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats)
	}

	cfg, err := config.Load(o.viper, o.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Verbose && !cmd.Flags().Changed("log-level") && cfg.Log.Level == "warn" {
		cfg.Log.Level = "info"
	}

	logger, err := logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Format)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to set up logging", err)
	}

	o.Config = cfg
	o.Format = cfg.Format
	o.Database = cfg.DB
	o.Logger = logger
	return nil
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
