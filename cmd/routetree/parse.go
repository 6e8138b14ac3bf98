package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetree/pkg/urltree"
)

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <url>",
		Short: "Parse a URL and print its tree",
		Long: `Parse a URL into segment groups and print them outlet by outlet,
followed by the canonical form of the URL.

Examples:
  routetree parse '/team/33;admin=true/user/bob(aux:help)?debug=1#top'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := urltree.Parse(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printGroup(out, tree.Root, "root", 0)
			if len(tree.QueryParams) > 0 {
				fmt.Fprintf(out, "query: %s\n", formatMap(tree.QueryParams))
			}
			if tree.Fragment != nil {
				fmt.Fprintf(out, "fragment: %s\n", *tree.Fragment)
			}
			fmt.Fprintf(out, "url: %s\n", urltree.Serialize(tree))
			return nil
		},
	}
}
