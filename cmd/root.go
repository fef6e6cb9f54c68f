// ABOUTME: Root command for the hrdesk CLI
// ABOUTME: Handles global flags and configuration

package cmd

import (
	"context"
	"os"

	"github.com/markalston/hrdesk/internal/config"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	configDir  string
	jsonOutput bool
)

const defaultAPIURL = "http://localhost:8080"

// Exit codes shared by all commands
const (
	exitOK     = 0
	exitDenied = 1
	exitError  = 2
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "hrdesk",
	Short: "Terminal client for the employee management system",
	Long: `hrdesk signs you in to the employee management system and opens the
HR or employee workspace for your role.

Run without a subcommand to start the interactive interface.

Environment Variables:
  HRDESK_API_URL        Backend API URL (default: http://localhost:8080)
  HRDESK_API_TIMEOUT    Request timeout (default: 10s)
  HRDESK_CONFIG_DIR     Token and log directory (default: ~/.config/hrdesk)
  HRDESK_TOKEN_BACKEND  file or sqlite (default: file)
  HRDESK_METRICS_FILE   Write Prometheus metrics here on exit
  LOG_LEVEL, LOG_FORMAT Log verbosity and format for hrdesk.log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tuiCmd.RunE(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides HRDESK_API_URL)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory for tokens and logs (overrides HRDESK_CONFIG_DIR)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("HRDESK_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// GetConfigDir returns the config directory from flag, env, or XDG default
func GetConfigDir() string {
	if configDir != "" {
		return configDir
	}
	if env := os.Getenv("HRDESK_CONFIG_DIR"); env != "" {
		return env
	}
	return config.DefaultConfigDir()
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// appConfig loads configuration with global flags applied on top
func appConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if apiURL != "" || configDir != "" {
		cfg.APIURL = GetAPIURL()
		cfg.ConfigDir = GetConfigDir()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
