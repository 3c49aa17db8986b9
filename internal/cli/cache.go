package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figtree/pkg/cache"
)

// cacheCommand groups the local cache subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local bundle cache",
		Long: `Manage the local bundle cache.

Builds are cached by document content and settings under the XDG cache
directory. Use --no-cache on build to bypass it for a single run.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached bundles and asset sizes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("locate cache: %w", err)
				}
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					c.printf(statusInfo, "Cache is empty")
					return nil
				}
				fc, err := cache.NewFileCache(dir)
				if err != nil {
					return err
				}
				n, err := fc.Clear(cmd.Context())
				if err != nil {
					return err
				}
				c.printf(statusSuccess, "Removed %d cache entries", n)
				c.detail("%s", dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("locate cache: %w", err)
				}
				_, err = fmt.Fprintln(c.Out, dir)
				return err
			},
		},
	)
	return cmd
}
