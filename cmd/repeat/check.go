package main

import (
	"github.com/spf13/cobra"
)

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check <paths...>",
		Short: "Register every card found under the given paths",
		Long: `Register every card found under the given paths.

Directories are searched recursively for .md files. Cards already known
keep their review history. Files that are not cards are listed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, inserted, err := c.register(cmd, args)
			if err != nil {
				return err
			}

			for _, s := range result.Skipped {
				c.printWarning("%s: %v", s.Path, s.Err)
			}
			c.printSuccess("Found %d unique cards and registered them to the DB (%d new)",
				len(result.Cards), inserted)
			return nil
		},
	}
}
