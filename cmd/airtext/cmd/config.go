package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/airtext/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the airtext configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long: `Write the default configuration as YAML to the --config path
(default $HOME/.airtext/config.yaml). Every key can also be set with an
AIRTEXT_ environment variable, for example AIRTEXT_OVERLAY_TARGET_WORD.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printConfig(cmd, cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	def := config.Default()
	def.DataDir = config.DefaultDir()
	if err := def.Write(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func printConfig(cmd *cobra.Command, c config.Config) error {
	settings := c.Settings()
	for _, key := range config.EditableKeys() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", key, settings[key])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", "server.addr", c.Server.Addr)
	fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", "data_dir", c.DataDir)
	return nil
}
