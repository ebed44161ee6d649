package main

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/carabina/popupkit/internal/appearance"
)

var configOpts struct {
	format string
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage the appearance file",
	Long: `Inspect and manage the popup appearance file.

Without a subcommand, prints the effective appearance (defaults overlaid
with the appearance file, if present).`,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the appearance file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := globalOpts.configPath
		if path == "" {
			path = appearance.ConfigPath()
		}
		fmt.Println(path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective appearance to the appearance file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := globalOpts.configPath
		if path == "" {
			path = appearance.ConfigPath()
		}
		if err := getAppearance().Save(path); err != nil {
			return fmt.Errorf("failed to write appearance file: %w", err)
		}
		fmt.Println("wrote", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)

	configCmd.Flags().StringVarP(&configOpts.format, "format", "f", "toml",
		"Output format (toml, yaml)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a := getAppearance()

	var (
		data []byte
		err  error
	)
	switch configOpts.format {
	case "toml":
		data, err = toml.Marshal(a)
	case "yaml":
		data, err = yaml.Marshal(a)
	default:
		return fmt.Errorf("unknown format: %s (expected toml or yaml)", configOpts.format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal appearance: %w", err)
	}

	fmt.Print(string(data))
	return nil
}
