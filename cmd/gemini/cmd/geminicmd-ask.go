package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	gemini "github.com/bububa/gemini-go"
	"github.com/bububa/gemini-go/internal"
)

var askCmd = &cobra.Command{
	Use:   "ask [message...]",
	Short: "Send a single message and print the reply",
	RunE:  askRun,
}

var (
	askSystemFlag      string
	askTemperatureFlag float32
	askSafetyFlag      string
	askFileFlags       []string
)

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askSystemFlag, "system", "s", "", "system instruction")
	askCmd.Flags().Float32VarP(&askTemperatureFlag, "temperature", "t", -1, "sampling temperature, negative keeps the model default")
	askCmd.Flags().StringVar(&askSafetyFlag, "safety", "", "block threshold applied to every category, e.g. BLOCK_ONLY_HIGH")
	askCmd.Flags().StringArrayVarP(&askFileFlags, "file", "f", nil, "attach a local file or an http(s) link")
}

func askRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no message provided")
	}
	client, err := newClient()
	if err != nil {
		return err
	}
	route := client.GenerateContent(modelFlag())
	req := route.Request()
	parts, err := attachments(cmd, client, askFileFlags)
	if err != nil {
		return err
	}
	parts = append(parts, gemini.TextPart(strings.Join(args, " ")))
	req.Contents([]gemini.Content{gemini.UserContent(parts...)})
	if askSystemFlag != "" {
		req.SystemInstruction(askSystemFlag)
	}
	if askTemperatureFlag >= 0 {
		req.Config(gemini.GenerationConfig{Temperature: internal.ToPtr(askTemperatureFlag)})
	}
	if askSafetyFlag != "" {
		threshold, err := gemini.ParseHarmBlockThreshold(askSafetyFlag)
		if err != nil {
			return err
		}
		req.SafetySettings(gemini.SafetySettingsFrom(threshold)...)
	}
	resp, err := route.Do(cmd.Context())
	if err != nil {
		return err
	}
	if resp.Blocked() {
		return errors.New("prompt blocked: " + resp.PromptFeedback.BlockReason)
	}
	WriteStdout("%s\n", resp.Text())
	return nil
}
