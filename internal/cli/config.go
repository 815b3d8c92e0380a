package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smsbridge/smsbridge/internal/cli/ui"
	"github.com/smsbridge/smsbridge/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default smsbridge.toml",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.GenerateDefault(path); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Printf("%s wrote %s\n", ui.StyleSuccess.Render(ui.SymbolCheck), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().String("path", "smsbridge.toml", "Where to write the config file")
	configCmd.AddCommand(configInitCmd)
}
