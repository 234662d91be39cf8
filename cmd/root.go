/*
	Copyright 2026 Markus Papenbrock
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	compareCmd "github.com/mpapenbr/lapcompare/pkg/cmd/compare"
	lapCmd "github.com/mpapenbr/lapcompare/pkg/cmd/lap"
	planCmd "github.com/mpapenbr/lapcompare/pkg/cmd/plan"
	"github.com/mpapenbr/lapcompare/pkg/config"
	"github.com/mpapenbr/lapcompare/version"
)

const envPrefix = "LCMP"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lcmp",
	Short: "Lap telemetry comparison charts",
	Long: `Fetches lap telemetry and lap comparisons from the RaceTrace API and
renders delta and channel overlay charts as PNG files.`,
	Version: version.FullVersion,

	// Uncomment the following line if your bare application
	// has an action associated with it:
	// Run: func(cmd *cobra.Command, args []string) { },
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Here you will define your flags and configuration settings.
	// Cobra supports persistent flags, which, if defined here,
	// will be global for your application.

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.lcmp.yml)")

	rootCmd.PersistentFlags().StringVar(&config.URL, "url",
		"http://localhost:8000",
		"base URL of the RaceTrace API")
	rootCmd.PersistentFlags().StringVar(&config.Token, "token",
		"",
		"bearer token sent with each request")
	rootCmd.PersistentFlags().StringSliceVar(&config.Headers, "header",
		[]string{},
		"additional request header (key=value), may be repeated")
	rootCmd.PersistentFlags().StringVar(&config.Timeout, "timeout",
		"30s",
		"timeout for API requests")
	rootCmd.PersistentFlags().StringVar(&config.WaitForAPI, "wait-for-api",
		"0s",
		"duration to wait for the API to accept connections (0s: don't wait)")
	rootCmd.PersistentFlags().StringVar(&config.TLSCAFile, "tls-ca",
		"",
		"CA file used to verify the API server")
	rootCmd.PersistentFlags().StringVar(&config.TLSCertFile, "tls-cert",
		"",
		"client certificate file (reloaded on change)")
	rootCmd.PersistentFlags().StringVar(&config.TLSKeyFile, "tls-key",
		"",
		"client key file (reloaded on change)")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat, "log-format",
		"text",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter, "log-filter",
		"",
		"zapfilter rules, e.g. 'debug:render.* info:*'")
	rootCmd.PersistentFlags().BoolVar(&config.EnableTelemetry, "enable-telemetry",
		false,
		"enables tracing of API requests")
	rootCmd.PersistentFlags().StringVar(&config.TelemetryEndpoint, "telemetry-endpoint",
		"",
		"otlp grpc endpoint for traces (default prints traces to stderr)")
	rootCmd.PersistentFlags().StringVar(&config.CacheExpiration, "cache-expiration",
		"1m",
		"how long fetched lap telemetry is reused")
	rootCmd.PersistentFlags().StringVar(&config.OutputDir, "out",
		"charts",
		"directory receiving the chart images")
	rootCmd.PersistentFlags().IntVar(&config.ChartWidth, "width",
		1024,
		"chart width in pixels")
	rootCmd.PersistentFlags().IntVar(&config.ChartHeight, "height",
		300,
		"chart height in pixels")

	// add commands here
	rootCmd.AddCommand(compareCmd.NewCompareCmd())
	rootCmd.AddCommand(lapCmd.NewLapCmd())
	rootCmd.AddCommand(planCmd.NewPlanCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".lcmp" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".lcmp")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --favorite-color to LCMP_FAVORITE_COLOR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
