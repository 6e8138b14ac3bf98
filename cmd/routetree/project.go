package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/routetree/internal/config"
	"github.com/vango-dev/routetree/internal/errors"
	"github.com/vango-dev/routetree/pkg/router"
	"github.com/vango-dev/routetree/pkg/routes"
	"github.com/vango-dev/routetree/pkg/state"
	"github.com/vango-dev/routetree/pkg/urltree"
)

// loadConfig loads routetree.json from --config, from the nearest
// directory that has one, or falls back to the defaults.
func loadConfig(flags *projectFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.config != "" {
		cfg, err = config.LoadFile(flags.config)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		if errors.Is(err, errors.ErrMissingConfig) {
			cfg = config.New()
			if err = cfg.ApplyEnv(".env"); err == nil {
				err = cfg.Validate()
			}
		}
	}
	if err != nil {
		return nil, err
	}

	if flags.routes != "" {
		abs, err := filepath.Abs(flags.routes)
		if err != nil {
			return nil, err
		}
		cfg.Routes.File = abs
	}
	return cfg, nil
}

// readRoutes decodes the top-level route configuration.
func readRoutes(cfg *config.Config) (routes.Routes, error) {
	path := cfg.RoutesPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("R106").
			WithSubject(path).
			WithSuggestion("Pass --routes or set routes.file in " + config.ConfigFileName).
			Wrap(err)
	}
	return routes.Decode(data, routes.FormatOf(path))
}

// newLoader returns the loader for deferred child configurations, or nil
// when none is configured.
func newLoader(ctx context.Context, cfg *config.Config) (routes.Loader, error) {
	switch {
	case cfg.Routes.S3.Bucket != "":
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.Routes.S3.Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.Routes.S3.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, errors.New("R106").
				WithDetail("cannot load AWS configuration").
				Wrap(err)
		}
		loader := routes.NewS3Loader(s3.NewFromConfig(awsCfg), cfg.Routes.S3.Bucket, cfg.Routes.S3.Prefix)
		if routes.FormatOf(cfg.Routes.File) == routes.FormatYAML {
			loader.Suffix = filepath.Ext(cfg.Routes.File)
		}
		return loader, nil
	case cfg.Routes.Dir != "":
		return routes.FileLoader{FS: os.DirFS(cfg.RoutesDir())}, nil
	}
	return nil, nil
}

// newRouter builds a router from the project configuration. A nil
// registerer disables metrics.
func newRouter(ctx context.Context, cfg *config.Config, flags *projectFlags, logger *slog.Logger, reg prometheus.Registerer) (*router.Router, error) {
	routeConfig, err := readRoutes(cfg)
	if err != nil {
		return nil, err
	}
	loader, err := newLoader(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []router.Option{
		router.WithLogger(logger),
		router.WithRegistry(stubRegistry(routeConfig, flags.deny)),
		router.WithRootComponent(cfg.RootComponent),
		router.WithLoaderCacheSize(cfg.Routes.CacheSize),
	}
	if loader != nil {
		opts = append(opts, router.WithLoader(loader))
	}
	if reg != nil {
		opts = append(opts, router.WithMetrics(router.WithMetricsRegistry(reg)))
	}
	return router.New(routeConfig, opts...)
}

// printGroup writes an indented outline of a URL tree group.
func printGroup(w io.Writer, g *urltree.SegmentGroup, outlet string, depth int) {
	segments := make([]string, len(g.Segments))
	for i, s := range g.Segments {
		segments[i] = s.String()
	}
	fmt.Fprintf(w, "%s%s: %s\n", strings.Repeat("  ", depth), outlet, strings.Join(segments, "/"))
	for _, name := range g.Outlets() {
		printGroup(w, g.Children[name], name, depth+1)
	}
}

// printSnapshot writes an indented outline of activated routes.
func printSnapshot(w io.Writer, s *state.ActivatedRouteSnapshot, depth int) {
	indent := strings.Repeat("  ", depth)
	path := ""
	if s.RouteConfig != nil {
		path = s.RouteConfig.Path
	}
	component := s.Component
	if component == "" {
		component = "-"
	}
	fmt.Fprintf(w, "%s%s %s path:%q", indent, s.Outlet, component, path)
	if len(s.Params) > 0 {
		fmt.Fprintf(w, " params:%s", formatMap(s.Params))
	}
	fmt.Fprintln(w)
	for _, c := range s.Children() {
		printSnapshot(w, c, depth+1)
	}
}

func formatMap(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + m[k]
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
