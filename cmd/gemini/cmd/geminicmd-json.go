package cmd

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	gemini "github.com/bububa/gemini-go"
)

var jsonCmd = &cobra.Command{
	Use:   "json [message...]",
	Short: "Ask for a JSON reply and print it indented",
	RunE:  jsonRun,
}

var jsonSchemaFlag string

func init() {
	rootCmd.AddCommand(jsonCmd)
	jsonCmd.Flags().StringVar(&jsonSchemaFlag, "schema", "", "response schema as a JSON document")
}

func jsonRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no message provided")
	}
	client, err := newClient()
	if err != nil {
		return err
	}
	chat := client.Chat(modelFlag()).JSON()
	if jsonSchemaFlag != "" {
		schema := new(gemini.Schema)
		if err := json.Unmarshal([]byte(jsonSchemaFlag), schema); err != nil {
			return err
		}
		chat.ResponseSchema(schema)
	}
	out, err := gemini.Decode[any](cmd.Context(), chat, strings.Join(args, " "))
	if err != nil {
		return err
	}
	bs, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	WriteStdout("%s\n", bs)
	return nil
}
