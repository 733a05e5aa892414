// Package cmd wires the refix CLI: check reports findings, fix
// applies them, rules lists the registry, and init writes a starter
// configuration.
package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	cfgFile string
	timeout time.Duration
	logPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "refix [paths...]",
	Short:            "refix - pattern-driven checks and rewrites for Go source",
	TraverseChildren: true, // prioritize subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = buildLogger(logPath)
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		// bare paths behave like the check subcommand
		checkCmd.Run(checkCmd, args)
	},
}

func Execute() error {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

// buildLogger returns the development logger, teeing into a rotated
// file when one is configured.
func buildLogger(path string) (*zap.Logger, error) {
	console, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return console, nil
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	})
	fileCore := zapcore.NewCore(encoder, sink, zapcore.DebugLevel)
	return zap.New(zapcore.NewTee(console.Core(), fileCore)), nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", ".refix.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Time budget for one command run")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-file", "", "Also write logs to this file, with rotation")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(rulesCmd)
}
