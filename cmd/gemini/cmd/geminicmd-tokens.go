package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [message...]",
	Short: "Count the tokens of a message",
	RunE:  tokensRun,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func tokensRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no message provided")
	}
	client, err := newClient()
	if err != nil {
		return err
	}
	route := client.CountTokens(modelFlag())
	route.Request().Message(strings.Join(args, " "))
	count, err := route.Do(cmd.Context())
	if err != nil {
		return err
	}
	WriteStdout("%d\n", count.TotalTokens)
	return nil
}
