package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teemow/eventcal/eventcal"
	"github.com/teemow/eventcal/internal/config"
	"github.com/teemow/eventcal/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	apiKey    string
	baseURL   string

	// cfg and logger are set by the root command before any subcommand runs
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd represents the base command for the eventcal application
var rootCmd = newRootCmd()

// newRootCmd builds the command tree. Building it again resets every flag
// to its default.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eventcal",
		Short: "Command-line client and MCP server for the event calendar API",
		Long: `eventcal talks to the public event calendar API.

It can run as:
  - A command-line client for calendars, events, guests and coupons
  - An MCP (Model Context Protocol) server for AI assistants

The API key is read from --api-key, the EVENTCAL_API_KEY environment variable
or the api.key entry of the config file. A .env file in the working directory
is loaded first.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (YAML). Can also use EVENTCAL_CONFIG env var.")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&logFormat, "log-format", "", "Log format: text or json")
	flags.StringVar(&apiKey, "api-key", "", "API key. Prefer the EVENTCAL_API_KEY env var.")
	flags.StringVar(&baseURL, "base-url", "", "API base URL")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCalendarCmd())
	cmd.AddCommand(newEventsCmd())
	cmd.AddCommand(newGenerateDocsCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "eventcal version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads .env, the config file and the environment, then applies flag
// overrides and installs the logger.
func setup(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	path := cfgFile
	if path == "" {
		path = os.Getenv(config.EnvConfigFile)
	}

	loaded, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	if logFormat != "" {
		loaded.Log.Format = logFormat
	}
	if apiKey != "" {
		loaded.API.Key = apiKey
	}
	if baseURL != "" {
		loaded.API.BaseURL = baseURL
	}

	// Logs go to stderr so stdout stays clean for command output and stdio transport
	handler, err := logging.NewHandler(os.Stderr, loaded.Log.Level, loaded.Log.Format)
	if err != nil {
		return err
	}

	cfg = loaded
	logger = slog.New(handler)
	slog.SetDefault(logger)
	return nil
}

// newClient builds an API client from the loaded configuration.
func newClient() (*eventcal.Client, error) {
	client, err := eventcal.New(cfg.ClientOptions(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of eventcal",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "eventcal version %s\n", version)
		},
	}
}
