// Package commands implements the CLI commands for the objref tool.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/kodingen/oleviewdotnet/internal/logger"
	"github.com/kodingen/oleviewdotnet/pkg/config"
)

// cfg is the loaded configuration, shared by the subcommands.
var cfg = config.Default()

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "objref",
	Short: "Inspect and build DCOM OBJREF marshaling data",
	Long: `objref is a codec tool for the DCOM OBJREF marshaling format.

It parses marshaled object references from hex, base64, raw bytes, or
"objref:" monikers, rebuilds references from YAML descriptions, and can
resolve interface pointer identifiers against the local process table.

Use "objref [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		return logger.Init(cfg.Logging)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/objref/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(monikerCmd)
	rootCmd.AddCommand(versionCmd)
}
