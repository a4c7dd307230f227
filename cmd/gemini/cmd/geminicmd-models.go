package cmd

import (
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models [name]",
	Short: "List models, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  modelsRun,
}

var modelsMethodFlag string

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().StringVar(&modelsMethodFlag, "method", "", "only list models supporting this method, e.g. generateContent")
}

func modelsRun(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		m, err := client.Model(args[0]).Do(cmd.Context())
		if err != nil {
			return err
		}
		WriteStdout("%s\t%s\n%s\ninput tokens: %d, output tokens: %d\n", m.Name, m.DisplayName, m.Description, m.InputTokenLimit, m.OutputTokenLimit)
		return nil
	}
	models, err := client.AllModels(cmd.Context())
	if err != nil {
		return err
	}
	for _, m := range models {
		if modelsMethodFlag != "" && !m.Supports(modelsMethodFlag) {
			continue
		}
		WriteStdout("%s\t%s\n", m.Name, m.DisplayName)
	}
	return nil
}
