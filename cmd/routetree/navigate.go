package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetree/internal/errors"
	"github.com/vango-dev/routetree/pkg/router"
)

func navigateCmd(flags *projectFlags) *cobra.Command {
	var showEvents bool

	cmd := &cobra.Command{
		Use:   "navigate <url>...",
		Short: "Run navigations one after another and print the final state",
		Long: `Run a navigation for each URL in order, waiting for each one to
finish, then print the committed state. Failed navigations are reported
and leave the state as it was.

Examples:
  routetree navigate /team/1 /team/2/user/ann
  routetree navigate --deny auth /admin --events`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(os.Stderr)
			r, err := newRouter(cmd.Context(), cfg, flags, logger, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showEvents {
				unsubscribe := r.Subscribe(func(e router.Event) {
					fmt.Fprintln(out, e.String())
				})
				defer unsubscribe()
			}

			var failures int
			for _, url := range args {
				ok, err := r.NavigateByURL(cmd.Context(), url).Wait(cmd.Context())
				switch {
				case err != nil:
					failures++
					errors.PrintError(cmd.ErrOrStderr(), err)
				case !ok:
					info(cmd, "%s: navigation cancelled", url)
				default:
					success(cmd, "%s -> %s", url, r.URL())
				}
			}

			fmt.Fprintf(out, "url: %s\n", r.URL())
			printSnapshot(out, r.State().Snapshot.Root, 0)
			if failures > 0 {
				return fmt.Errorf("%d of %d navigations failed", failures, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showEvents, "events", "e", false, "Print navigation events as they happen")

	return cmd
}
