package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/a13labs/hypgen/pkg/config"
	"github.com/a13labs/hypgen/pkg/logging"
)

// Version information
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	configFiles []string
	cfg         *config.Config
	logger      = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "hypgen",
	Short: "Reflection glue generator for HYP_* annotated C++ types",
	Long: `hypgen scans C++ headers for classes, structs and enums annotated with the
HYP_CLASS, HYP_STRUCT and HYP_ENUM macros and their HYP_FIELD, HYP_METHOD and
HYP_PROPERTY members, and writes a .generated.cpp reflection file and a .cs
binding file next to each header that changed since the last run.`,
	Version:           getVersionString(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return initConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "hypgen %s\n", getVersionString())
		fmt.Fprintf(out, "  Version: %s\n", version)
		fmt.Fprintf(out, "  Commit:  %s\n", commit)
		fmt.Fprintf(out, "  Date:    %s\n", date)
	},
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return version
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func Execute() error {
	return rootCmd.Execute()
}

// initConfig loads the configuration and sets up logging
func initConfig() error {
	c, err := config.Load(viper.GetViper(), configFiles)
	if err != nil {
		return err
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	cfg = c
	logger = logging.New(c.Log.Level)
	slog.SetDefault(logger)
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file(s)", "config", used)
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringSliceVar(&configFiles, "config", nil, "config file(s); later files override earlier ones")
	flags.StringP("level", "l", "info", "log level (trace, debug, info, warn, error)")
	_ = viper.BindPFlag("log.level", flags.Lookup("level"))

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(astCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
