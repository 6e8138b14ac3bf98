package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

func resolveCmd(flags *projectFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <url>",
		Short: "Apply redirects and recognize routes without navigating",
		Long: `Resolve a URL against the route configuration: apply redirects,
recognize the activated routes and print them. Guards and resolvers do not
run.

Examples:
  routetree resolve /team/33/user/bob
  routetree resolve --routes app.yaml '/inbox(popup:compose)'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			r, err := newRouter(cmd.Context(), cfg, flags, logger, nil)
			if err != nil {
				return err
			}

			res, err := r.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "url:             %s\n", res.URL)
			fmt.Fprintf(out, "after redirects: %s\n", res.URLAfterRedirects)
			printSnapshot(out, res.State.Root, 0)
			return nil
		},
	}
}
