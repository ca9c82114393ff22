package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/msto63/fdl/pkg/core/config"
	fdlerr "github.com/msto63/fdl/pkg/core/error"
	"github.com/msto63/fdl/pkg/core/log"
	"github.com/msto63/fdl/pkg/fdl/parser"
)

// errSilent marks failures that were already reported to the user
var errSilent = errors.New("reported")

// app carries state shared by all subcommands of one invocation
type app struct {
	cfgFile string
	v       *viper.Viper
	config  *config.Config
	logger  *log.Logger
}

// Execute runs the fdl command line
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil && !errors.Is(err, errSilent) {
		printError(root, err)
	}
	return err
}

// NewRootCmd builds the command tree. Every call returns an independent
// tree with its own flag and config state.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "fdl",
		Short: "FDL - Forest Description Language toolkit",
		Long: `fdl parses, checks and explores Forest Description Language documents.

A document is a forest of named things. Each thing holds typed props
(int, float, bool, string) and nested things:

  thing "server" {
      string host = "localhost"
      int port = 8420
      thing "limits" { float ratio = 0.75 }
  }`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Config file (default: $FDL_CONFIG, ./fdl.toml)")
	flags.String("log-level", "", "Log level (debug, info, warn, error, off)")
	flags.String("log-format", "", "Log format (text, json)")
	flags.String("data-dir", "", "Data directory")

	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
	_ = a.v.BindPFlag(config.KeyDataDir, flags.Lookup("data-dir"))

	root.AddCommand(
		a.checkCmd(),
		a.tokensCmd(),
		a.treeCmd(),
		a.fmtCmd(),
		a.exportCmd(),
		a.viewCmd(),
		a.serveCmd(),
		a.storeCmd(),
		versionCmd(),
	)
	return root
}

// init loads the configuration file and applies flag and FDL_* overrides
func (a *app) init() error {
	a.v.SetEnvPrefix("FDL")
	a.v.AutomaticEnv()

	var err error
	switch {
	case a.cfgFile != "":
		a.config, err = config.Load(a.cfgFile)
	case os.Getenv(config.EnvConfig) != "":
		a.config, err = config.LoadFromEnv()
	default:
		a.config, err = config.LoadFromEnv()
		if fdlerr.HasCode(err, fdlerr.CodeNotFound) {
			a.config, err = config.Default(), nil
		}
	}
	if err != nil {
		return err
	}
	if err := a.config.Override(a.v); err != nil {
		return err
	}

	a.logger, err = a.config.Logger()
	if err != nil {
		return err
	}
	a.logger.Debug("Configuration loaded", log.Fields{
		"data_dir": a.config.General.DataDir,
		"store":    a.config.Store.Path,
	})
	return nil
}

func (a *app) parser() *parser.Parser {
	return parser.New(parser.Options{Logger: a.logger})
}

func printError(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
}
