package cmd

import (
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List uploaded files",
	Args:  cobra.NoArgs,
	RunE:  filesRun,
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete name...",
	Short: "Delete uploaded files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  filesDeleteRun,
}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.AddCommand(filesDeleteCmd)
}

func filesRun(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	var token string
	for {
		route := client.Files()
		route.Request().PageToken(token)
		page, err := route.Do(cmd.Context())
		if err != nil {
			return err
		}
		for _, f := range page.Files {
			WriteStdout("%s\t%s\t%s\t%s\n", f.Name, f.DisplayName, f.MimeType, f.State)
		}
		if page.NextPageToken == "" {
			return nil
		}
		token = page.NextPageToken
	}
}

func filesDeleteRun(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	for _, name := range args {
		if _, err := client.DeleteFile(name).Do(cmd.Context()); err != nil {
			return err
		}
		WriteStderr("deleted %s\n", name)
	}
	return nil
}
