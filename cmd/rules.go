package cmd

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/refixlabs/refix"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the registered rules and their configured state",
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := refix.New(cfgFile)
		if err != nil {
			logger.Fatal("initializing engine", zap.Error(err))
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Rule", "Severity", "Enabled", "Description"})
		table.SetBorder(false)
		table.SetAutoWrapText(false)

		for _, info := range eng.Rules() {
			severity := string(info.Severity)
			if severity == "" {
				severity = "per finding"
			}
			table.Append([]string{
				info.Name,
				severity,
				strconv.FormatBool(info.Enabled),
				info.Doc,
			})
		}
		table.Render()
	},
}
