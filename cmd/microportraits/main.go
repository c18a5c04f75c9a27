// Command microportraits extracts microportraits from dependency parsed
// documents and manages their storage.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cltl/micro-portraits/internal/config"
	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/logger"
	"github.com/cltl/micro-portraits/pkg/logger/console"
	"github.com/cltl/micro-portraits/pkg/logger/file"
	"github.com/cltl/micro-portraits/pkg/portrait"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "microportraits"

	verboseLogFile = "debug.log"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options collects the persistent flags shared by every subcommand.
type options struct {
	configPath string
	surface    bool
	noCoref    bool
	verbose    bool
	language   string
	roleBase   string

	cfg config.Config
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Extract microportraits from parsed documents",
		Long: `microportraits reads dependency parsed documents (NAF or JSON) and
reports, for every entity mention, its labels, properties and the
activities it takes part in, merged across sentences through coreference.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Close()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML config file (defaults to $"+config.EnvConfigPath+")")
	pf.BoolVarP(&opts.surface, "surface", "s", false, "use lowercased surface forms instead of lemmas")
	pf.BoolVarP(&opts.noCoref, "nocoref", "c", false, "do not merge portraits through coreference")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "write debug output and diagnostics to "+verboseLogFile)
	pf.StringVarP(&opts.language, "language", "l", "nl", "language used for lowercasing surface forms")
	pf.StringVarP(&opts.roleBase, "rolebase", "r", "dep", "how roles are derived (only dep is supported)")

	cmd.AddCommand(
		extractCmd(opts),
		schemaCmd(),
		goldCmd(),
		watchCmd(opts),
		migrateCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// setup resolves the configuration, lets explicitly set flags win over it
// and installs the loggers.
func (o *options) setup(cmd *cobra.Command) error {
	util.LoadEnv()

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("surface") {
		cfg.Extraction.Surface = o.surface
	}
	if flags.Changed("nocoref") {
		cfg.Extraction.NoCoref = o.noCoref
	}
	if flags.Changed("language") {
		cfg.Extraction.Language = o.language
	}
	if flags.Changed("rolebase") {
		cfg.Extraction.RoleBase = strings.ToLower(o.roleBase)
	}
	if o.verbose {
		cfg.Log.Debug = true
		if cfg.Log.File == "" {
			cfg.Log.File = verboseLogFile
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	backends := []logger.LoggerInstance{
		console.NewConsoleLogger(console.ConsoleLoggerParams{
			Output: cmd.ErrOrStderr(),
		}),
	}
	if cfg.Log.File != "" {
		level := log.InfoLevel
		if cfg.Log.Debug {
			level = log.DebugLevel
		}
		fl, err := file.NewFileLogger(file.FileLoggerParams{
			Path:     cfg.Log.File,
			Truncate: true,
			Level:    level,
		})
		if err != nil {
			return err
		}
		backends = append(backends, fl)
	}
	logger.Init(backends...)
	return nil
}

func (o *options) extractor() (*portrait.ExtractorClient, error) {
	return portrait.NewExtractorClient(portrait.NewExtractorClientParams{
		Surface:           o.cfg.Extraction.Surface,
		Language:          o.cfg.Extraction.Language,
		NoCoref:           o.cfg.Extraction.NoCoref,
		ParallelDocuments: o.cfg.Extraction.Workers,
	})
}
