package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/calassist/internal/backend"
	"github.com/teemow/calassist/internal/config"
	"github.com/teemow/calassist/internal/instrumentation"
	"github.com/teemow/calassist/internal/logging"
)

// rootCmd represents the base command for the calassist application
var rootCmd = newRootCmd()

// version will be set by main
var version = "dev"

// options shared by all commands, filled by persistent flags.
type globalOptions struct {
	debug      bool
	logFormat  string
	backendURL string
	envFile    string
}

var globals globalOptions

// runtime state prepared before every command runs.
var (
	cfg    *config.Config
	logger *slog.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calassist",
		Short: "Chat with an AI assistant that manages your Google Calendar",
		Long: `calassist is a front-end for an AI calendar assistant backend.

It relays your messages to the backend and lets you hand over the Google
Calendar credentials the backend needs to check availability and book
appointments. It can run as:
  - An interactive terminal chat (default)
  - A browser UI served over HTTP`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return prepare(cmd)
		},
	}

	cmd.PersistentFlags().BoolVar(&globals.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&globals.logFormat, "log-format", logging.FormatText, "Log format: text or json")
	cmd.PersistentFlags().StringVar(&globals.backendURL, "backend-url", "", "Assistant backend address. Can also use BACKEND_URL env var. (default "+config.DefaultBackendURL+")")
	cmd.PersistentFlags().StringVar(&globals.envFile, "env-file", ".env", "Optional env file loaded before reading the environment")

	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newConfigureCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSetupCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calassist version %s\n" .Version}}`)

	// If no subcommand is provided, run the chat command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "chat")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// prepare loads the env file and configuration and builds the logger.
// Logs go to stderr so the chat on stdout stays readable.
func prepare(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(globals.envFile); err != nil {
		return err
	}

	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if globals.backendURL != "" {
		loaded.Backend.URL = globals.backendURL
	}
	cfg = loaded

	logger = newLogger(cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return nil
}

func newLogger(w io.Writer) *slog.Logger {
	return logging.NewLogger(w, globals.logFormat, globals.debug)
}

func newBackendClient(metrics *instrumentation.Metrics) (*backend.Client, error) {
	client, err := backend.NewClient(cfg.Backend.URL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithLogger(logger),
		backend.WithMetrics(metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}
	return client, nil
}
