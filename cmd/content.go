package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zachkp/neon-portfolio/internal/content"
)

var contentFile string

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Validate portfolio content and print a summary",
	Long:  `Parses the content YAML (the embedded copy unless --file is given), validates it and prints how many entries each collection holds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   content.Content
			err error
		)
		if contentFile != "" {
			data, readErr := os.ReadFile(contentFile)
			if readErr != nil {
				return fmt.Errorf("reading %s: %w", contentFile, readErr)
			}
			c, err = content.Parse(data)
		} else {
			c, err = content.Default()
		}
		if err != nil {
			return fmt.Errorf("invalid content: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "experience: %d\n", len(c.Experience))
		fmt.Fprintf(out, "projects:   %d (%d featured)\n", len(c.Projects), len(c.Featured()))
		fmt.Fprintf(out, "skills:     %d\n", len(c.Skills))
		for _, g := range c.SkillsByCategory() {
			fmt.Fprintf(out, "  %-10s %d\n", g.Category, len(g.Skills))
		}
		fmt.Fprintf(out, "posts:      %d\n", len(c.Posts))
		return nil
	},
}

func init() {
	contentCmd.Flags().StringVar(&contentFile, "file", "", "content YAML to check instead of the embedded copy")
	rootCmd.AddCommand(contentCmd)
}
