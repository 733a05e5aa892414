package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/refixlabs/refix"
	"github.com/refixlabs/refix/internal/fixer"
)

var dryRun bool

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Apply available fixes to the given files or directories",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		eng, err := refix.New(cfgFile)
		if err != nil {
			logger.Fatal("initializing engine", zap.Error(err))
		}

		runAutoFix(ctx, eng, args, dryRun)
	},
}

func init() {
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show fixes without applying them")
}

func runAutoFix(ctx context.Context, eng refix.Engine, paths []string, dryRun bool) {
	fix := fixer.New(dryRun)

	for _, path := range paths {
		findings, err := refix.ProcessPath(ctx, logger, eng, path, refix.ProcessFile)
		if err != nil {
			logger.Error("processing path", zap.String("path", path), zap.Error(err))
			continue
		}

		grouped := groupByUnit(findings)
		units := make([]string, 0, len(grouped))
		for unit := range grouped {
			units = append(units, unit)
		}
		sort.Strings(units)

		for _, unit := range units {
			if err := fix.Fix(unit, grouped[unit]); err != nil {
				logger.Error("applying fixes", zap.String("file", unit), zap.Error(err))
			}
		}
	}
}
