package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/refixlabs/refix"
	"github.com/refixlabs/refix/checker"
	"github.com/refixlabs/refix/formatter"
	"github.com/refixlabs/refix/internal/engine"
	"github.com/refixlabs/refix/source"
)

var (
	ignoreRules string
	ignorePaths string
	jsonOutput  bool
	outPath     string
	watchMode   bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Report findings in the given files or directories",
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
		applyIgnoreFlags(eng)

		if watchMode {
			runWatchMode(eng, args)
			return
		}

		findings, err := refix.ProcessFiles(ctx, logger, eng, args, refix.ProcessFile)
		if err != nil {
			logger.Error("processing files", zap.Error(err))
			os.Exit(1)
		}

		printFindings(findings)
		if len(findings) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rules to ignore")
	checkCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit findings as JSON")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	checkCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-check files as they change")
}

func applyIgnoreFlags(eng refix.Engine) {
	if ignoreRules != "" {
		for _, rule := range strings.Split(ignoreRules, ",") {
			eng.IgnoreRule(strings.TrimSpace(rule))
		}
	}
	if ignorePaths != "" {
		for _, path := range strings.Split(ignorePaths, ",") {
			eng.IgnorePath(strings.TrimSpace(path))
		}
	}
}

// runWatchMode re-checks files as they change until interrupted.
func runWatchMode(eng *engine.Engine, paths []string) {
	watcher, err := engine.NewWatcher(eng, logger, func(filename string, findings []checker.Finding) {
		if len(findings) == 0 {
			fmt.Printf("%s: no findings\n", filename)
			return
		}
		printFindings(findings)
	})
	if err != nil {
		logger.Fatal("starting watch mode", zap.Error(err))
	}
	defer func() { _ = watcher.Stop() }()

	if err := watcher.Watch(paths...); err != nil {
		logger.Fatal("watching paths", zap.Error(err))
	}
	logger.Info("watching for changes", zap.Strings("paths", paths))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
}

func printFindings(findings []checker.Finding) {
	grouped := groupByUnit(findings)

	if jsonOutput {
		data, err := formatter.JSON(findings)
		if err != nil {
			logger.Error("marshalling findings", zap.Error(err))
			return
		}
		if outPath == "" {
			fmt.Println(string(data))
			return
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			logger.Error("writing JSON output", zap.String("path", outPath), zap.Error(err))
		}
		return
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		unit, err := source.ReadUnit(name)
		if err != nil {
			logger.Error("reading source file", zap.String("file", name), zap.Error(err))
			continue
		}
		fmt.Println(formatter.Generate(grouped[name], unit))
	}
}

func groupByUnit(findings []checker.Finding) map[string][]checker.Finding {
	grouped := make(map[string][]checker.Finding)
	for _, f := range findings {
		grouped[f.Unit] = append(grouped[f.Unit], f)
	}
	return grouped
}
