// Command cmsctl is an operator tool for the CMS backends.
package main

import (
	"fmt"
	"os"

	"github.com/getyourdepa/depa-cms/internal/config"
	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "cmsctl",
	Short:         "Operator tool for the Depa CMS",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default configs/config.<APP_ENV>.yaml)")
	rootCmd.AddCommand(slugCmd, shortenCmd, galleryCmd, tokenCmd)
}

// loadConfig loads .env files and the YAML config. Logs go to stderr so
// command output stays pipeable.
func loadConfig() (*config.Config, error) {
	config.LoadDotEnv()
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	pkglogger.SetLevel("warn")
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
