package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/refixlabs/refix/internal/engine"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path := cfgFile
		if path == "" {
			path = ".refix.yaml"
		}
		if err := engine.WriteConfig(path, engine.DefaultConfig()); err != nil {
			logger.Error("writing configuration", zap.String("path", path), zap.Error(err))
			return
		}
		fmt.Printf("configuration file created: %s\n", path)
	},
}
