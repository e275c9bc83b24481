// ABOUTME: Root command for panel-planner CLI
// ABOUTME: Handles global flags and configuration

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	apiURL     string
	jsonOutput bool
	cfgFile    string
	verbose    bool
)

const (
	defaultAPIURL = "http://localhost:8080"
	apiURLEnv     = "PANEL_PLANNER_API_URL"
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "panel-planner",
	Short: "CLI for the BMS panel planner",
	Long: `panel-planner sizes BMS panels: it turns point schedules into controller
and automation server selections and builds the bill of quantities.

Project files are YAML (or JSON) with a list of panels, each carrying either a
requirement vector or an equipment schedule.

Configuration is read from .panel-planner.yaml in the working directory or home
directory, or from the file passed with --config. Keys: api_url, catalog, spare_pct.

Environment Variables:
  PANEL_PLANNER_API_URL  Backend API URL (default: http://localhost:8080)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default .panel-planner.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides PANEL_PLANNER_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log catalog loading and solver details to stderr")
}

// initConfig reads the config file if present. A missing file is not an error.
func initConfig() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".panel-planner")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: could not read config: %v\n", err)
		}
	}
}

// GetAPIURL returns the API URL from flag, env, config file, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv(apiURLEnv); envURL != "" {
		return envURL
	}
	if cfgURL := viper.GetString("api_url"); cfgURL != "" {
		return cfgURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
