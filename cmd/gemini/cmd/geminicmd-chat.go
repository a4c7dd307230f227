package cmd

import (
	"bufio"
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long:  `chat reads one message per line from stdin until EOF or "exit". With --history the conversation is loaded from and saved to a .json, .yaml or .toml file.`,
	Args:  cobra.NoArgs,
	RunE:  chatRun,
}

var (
	chatSystemFlag  string
	chatHistoryFlag string
)

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatSystemFlag, "system", "s", "", "system instruction")
	chatCmd.Flags().StringVar(&chatHistoryFlag, "history", "", "history file")
}

func chatRun(cmd *cobra.Command, args []string) (rtnErr error) {
	client, err := newClient()
	if err != nil {
		return err
	}
	chat := client.Chat(modelFlag())
	if chatSystemFlag != "" {
		chat.SystemInstruction(chatSystemFlag)
	}
	if chatHistoryFlag != "" {
		if err := chat.LoadHistory(chatHistoryFlag); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		defer func() {
			if err := chat.Save(chatHistoryFlag); err != nil && rtnErr == nil {
				rtnErr = err
			}
		}()
	}
	scanner := bufio.NewScanner(WrappedStdin)
	WriteStderr("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			WriteStderr("> ")
			continue
		case "exit", "quit":
			return nil
		}
		resp, err := chat.SendMessage(cmd.Context(), line)
		if err != nil {
			WriteStderr("error: %v\n> ", err)
			continue
		}
		WriteStdout("%s\n", resp.Text())
		WriteStderr("> ")
	}
	return scanner.Err()
}
