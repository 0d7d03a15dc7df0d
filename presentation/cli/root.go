// Package cli is the robotdriver command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"robotdriver/domain/interfaces"
	"robotdriver/infrastructure/browser"
	"robotdriver/infrastructure/config"
	"robotdriver/infrastructure/logging"
	"robotdriver/infrastructure/site/automationexercise"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes
const (
	ExitOK      = 0
	ExitError   = 1
	ExitFailure = 2
)

// exitError ends a command with a specific exit code once its output has
// been printed
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func fail() error {
	return &exitError{code: ExitFailure}
}

// App holds what commands share once the configuration is loaded
type App struct {
	v          *viper.Viper
	cfg        *config.Config
	logger     *logrus.Logger
	out        io.Writer
	errOut     io.Writer
	configFile string

	// newLauncher and newAdapter are replaced in tests
	newLauncher func(cfg *config.Config, logger logrus.FieldLogger) interfaces.Launcher
	newAdapter  func(logger logrus.FieldLogger) interfaces.SiteAdapter
}

// NewApp - creates an app writing results to out and logs to errOut
func NewApp(out, errOut io.Writer) *App {
	return &App{
		v:      config.New(),
		out:    out,
		errOut: errOut,
		newLauncher: func(cfg *config.Config, logger logrus.FieldLogger) interfaces.Launcher {
			return browser.NewLauncher(cfg.Browser.Timeout, logger)
		},
		newAdapter: func(logger logrus.FieldLogger) interfaces.SiteAdapter {
			return automationexercise.NewAdapter(automationexercise.BaseURL, logger)
		},
	}
}

// NewRootCommand - builds the command tree
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "robotdriver",
		Short:         "Browser automation for the automationexercise.com shop",
		Long:          "Log in, search a product and report its price, or run declarative browser plans.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
	}
	root.SetOut(app.out)
	root.SetErr(app.errOut)

	root.PersistentFlags().StringVar(&app.configFile, "config", "", "config file (default robotdriver.yaml in . or $HOME)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "text", "log format: text or json")
	_ = app.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	_ = app.v.BindPFlag("log.format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(newPriceCommand(app))
	root.AddCommand(newServeCommand(app))
	root.AddCommand(newPlanCommand(app))
	root.AddCommand(newDescribeCommand(app))
	root.AddCommand(newExtractCommand(app))

	return root
}

// init - loads configuration and sets up the logger
func (a *App) init() error {
	cfg, err := config.Load(a.v, config.Options{ConfigFile: a.configFile})
	if err != nil {
		return err
	}
	logger, err := logging.New(a.errOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// Execute - runs the command line and returns the process exit code
func Execute() int {
	return run(NewApp(os.Stdout, os.Stderr), os.Args[1:])
}

func run(app *App, args []string) int {
	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(app.errOut, "Error: %v\n", err)
	return ExitError
}
