// Package cli provides the slicetrait command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"slicetrait/internal/cli/commands"
	"slicetrait/internal/config"
	"slicetrait/internal/logging"
	"slicetrait/internal/mapping"
	"slicetrait/tensors"
	"slicetrait/trait"
)

// Version is set at build time.
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "slicetrait",
		Short: "slicetrait - slice-trait type resolution",
		Long: `slicetrait resolves the type obtained by slicing a multi-dimensional
container along an axis (rowslice, quatslice, or axes declared by mapping
files), using built-in tensor mappings and user-supplied YAML mapping files.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip setup for help and completion commands
			switch cmd.Name() {
			case "help", "completion", "__complete", "version":
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			if err := logging.Initialize(logging.Options{JSON: cfg.LogJSON, Level: cfg.LogLevel}); err != nil {
				return err
			}

			if cfg.File != "" {
				logging.L().Infow("using config file", logging.FieldFile, cfg.File)
			}

			reg, err := BuildRegistry(cfg)
			if err != nil {
				return err
			}

			cmd.SetContext(commands.WithState(cmd.Context(), &commands.State{Config: cfg, Registry: reg}))

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logging.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+")")
	flags.StringSliceP("mapping", "m", nil, "YAML trait mapping file (repeatable)")
	flags.Bool("no-builtin", false, "do not register the built-in tensor mappings")
	flags.StringP("output", "o", config.DefaultOutput, "output format (text|table|yaml)")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	flags.Bool("log-json", false, "log as JSON")
	flags.Int("max-depth", trait.DefaultMaxDepth, "maximum nesting of forwarded resolutions")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.Outputs, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewResolveCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewAuditCommand())
	rootCmd.AddCommand(commands.NewGenCommand())

	return rootCmd
}

// BuildRegistry creates the registry a run works with: the built-in tensor
// mappings when enabled, then every configured mapping file in order.
func BuildRegistry(cfg *config.Config) (*trait.Registry, error) {
	reg := trait.NewRegistry()

	if cfg.Builtin {
		if err := tensors.RegisterInto(reg); err != nil {
			return nil, errors.Wrap(err, "register built-in mappings")
		}
	}

	if err := mapping.LoadInto(reg, cfg.MappingFiles...); err != nil {
		return nil, err
	}

	return reg, nil
}

// Execute runs the root command with os.Args and returns the process exit code.
func Execute() int {
	return Run(NewRootCmd(), os.Args[1:], os.Stderr)
}

// Run executes cmd with args, printing errors and their hints to stderr.
func Run(cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		for _, h := range errors.GetAllHints(err) {
			_, _ = fmt.Fprintf(stderr, "Hint: %s\n", h)
		}

		return 1
	}

	return 0
}
