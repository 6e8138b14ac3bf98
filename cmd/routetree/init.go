package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetree/internal/config"
	"github.com/vango-dev/routetree/internal/errors"
)

const sampleRoutes = `{
  "routes": [
    {"path": "", "redirectTo": "home", "pathMatch": "full"},
    {"path": "home", "component": "Home"},
    {"path": "team/:id", "component": "Team", "children": [
      {"path": "", "component": "TeamSummary"},
      {"path": "user/:name", "component": "User"}
    ]},
    {"path": "help", "component": "Help", "outlet": "aux"},
    {"path": "**", "redirectTo": "/home"}
  ]
}
`

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create routetree.json and a sample route configuration",
		Long: `Create routetree.json with default settings in dir (default: the
working directory), plus routes.json unless it already exists.

Examples:
  routetree init
  routetree init ./app --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing routetree.json")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if config.Exists(dir) && !force {
		return errors.New("R120").
			WithDetail(config.ConfigFileName + " already exists in " + dir).
			WithSuggestion("Use --force to overwrite it")
	}

	cfg := config.New()
	cfg.RootComponent = "App"
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		return err
	}
	success(cmd, "Created %s", cfg.Path())

	routesPath := filepath.Join(dir, cfg.Routes.File)
	if _, err := os.Stat(routesPath); os.IsNotExist(err) {
		if err := os.WriteFile(routesPath, []byte(sampleRoutes), 0644); err != nil {
			return err
		}
		success(cmd, "Created %s", routesPath)
	}
	return nil
}
