package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"

	"github.com/josephlewis42/nsh/core"
	"github.com/josephlewis42/nsh/core/config"
	"github.com/josephlewis42/nsh/core/logger"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	commandLine string

	// exitCode is the process status once the command finishes.
	exitCode int
)

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nsh",
	Short: "A small interactive command interpreter",
	Long: `A small interactive command interpreter.

nsh reads one line at a time, splits it on spaces and runs it as a pipeline of
external programs joined with "|". A single "<" and ">" redirect the input of
the first program and the output of the last one. The builtins "exit" and
"history" must be the whole line.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "[nsh] ", 0)

		configuration, err := config.LoadOrDefault(cfgPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		sessionLog, closeLog := openEventLog(configuration, logger)
		defer closeLog()

		shell, err := core.NewShell(configuration, core.DefaultStdio(), sessionLog)
		if err != nil {
			return err
		}
		defer shell.Close()

		if cmd.Flags().Changed("command") {
			exitCode = shell.RunLine(ctx, commandLine)
			return nil
		}

		exitCode = shell.Run(ctx)
		return nil
	},
}

// openEventLog starts a session in the configured event log. Commands still
// run if the log can't be opened.
func openEventLog(configuration *config.Configuration, diag *log.Logger) (*logger.SessionLogger, func()) {
	nop := func() {}
	if !configuration.EventLogEnabled() {
		return nil, nop
	}

	fd, err := configuration.OpenEventLog()
	if err != nil {
		diag.Printf("event log disabled: %v", err)
		return nil, nop
	}

	return logger.NewJsonLinesLogRecorder(fd).NewSession(), func() { fd.Close() }
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultDir(), "config path")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit with its status")
}
