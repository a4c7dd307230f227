package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	gemini "github.com/bububa/gemini-go"
)

// attachments turns --file values into inline parts.
func attachments(cmd *cobra.Command, client *gemini.Client, files []string) ([]gemini.Part, error) {
	parts := make([]gemini.Part, 0, len(files)+1)
	for _, file := range files {
		if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") || strings.HasPrefix(file, "data:") {
			part, err := client.PartFromURL(cmd.Context(), file)
			if err != nil {
				return nil, fmt.Errorf("fetching %s: %w", file, err)
			}
			parts = append(parts, part)
			continue
		}
		fd, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("opening file %s: %w", file, err)
		}
		part, err := gemini.PartFromReader(fd, "")
		fd.Close()
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", file, err)
		}
		parts = append(parts, part)
	}
	return parts, nil
}
