package cmd

import (
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload path...",
	Short: "Upload files for use in prompts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  uploadRun,
}

var uploadMimeFlag string

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVar(&uploadMimeFlag, "mime", "", "MIME type of a single file, sniffed when empty")
}

func uploadRun(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		f, err := client.Upload(cmd.Context(), args[0], uploadMimeFlag)
		if err != nil {
			return err
		}
		WriteStdout("%s\t%s\t%s\n", f.Name, f.MimeType, f.URI)
		return nil
	}
	files, err := client.UploadAll(cmd.Context(), args...)
	if err != nil {
		return err
	}
	for _, f := range files {
		WriteStdout("%s\t%s\t%s\n", f.Name, f.MimeType, f.URI)
	}
	return nil
}
