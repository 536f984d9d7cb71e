package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/serpent-arena/internal/config"
)

var flagEffective bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration",
	Long: `Print the built-in configuration as YAML. Save it to
~/.serpent/config.yaml or ./configs/serpent.yaml and edit it to customize.

With --effective, print the configuration after the config file search,
environment variables and global flags have been applied.

Examples:
  serpent config > ~/.serpent/config.yaml
  PORT=8080 serpent config --effective`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagEffective, "effective", false, "Print the loaded configuration instead of the defaults")
}

func runConfig(_ *cobra.Command, _ []string) {
	if !flagEffective {
		os.Stdout.Write(config.DefaultYAML()) //nolint:errcheck
		return
	}

	cfg := loadConfig()
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		fail("Error encoding config: %v", err)
	}
	enc.Close() //nolint:errcheck
}
