// cmd/litnav/commands.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"litnav/internal/builder"
	"litnav/internal/config"
	"litnav/internal/nav"
	"litnav/internal/scaffold"
	"litnav/internal/server"
	"litnav/internal/util"
)

type appConfig struct {
	debug      bool
	configFile string
	docsDir    string
	logger     *zap.Logger
}

func newRootCommand() *cobra.Command {
	app := &appConfig{}

	root := &cobra.Command{
		Use:           "litnav",
		Short:         "litnav - builds site navigation from Markdown lists",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := util.NewLogger(app.debug)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			app.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				app.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVar(&app.debug, "debug", false, "Enable debug output.")
	root.PersistentFlags().StringVarP(&app.configFile, "config", "c", config.DefaultFile, "Path to the config file.")
	root.PersistentFlags().StringVar(&app.docsDir, "docs-dir", "", "Override the docs directory from the config file.")

	root.AddCommand(
		newResolveCommand(app),
		newServeCommand(app),
		newInitCommand(),
		newPageCommand(app),
	)
	return root
}

// loadConfig reads the config file. A missing default config file is not an
// error; the defaults apply.
func (app *appConfig) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(app.configFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return config.Config{}, err
		}
		app.logger.Debug("No config file found, using defaults", zap.String("path", app.configFile))
		cfg = config.Default()
	}
	if app.docsDir != "" {
		cfg.DocsDir = app.docsDir
	}
	return cfg, nil
}

// docsRoot resolves the docs directory relative to the config file.
func (app *appConfig) docsRoot(cfg config.Config) string {
	if filepath.IsAbs(cfg.DocsDir) || app.docsDir != "" {
		return cfg.DocsDir
	}
	return filepath.Join(filepath.Dir(app.configFile), cfg.DocsDir)
}

func (app *appConfig) build(cmd *cobra.Command) (nav.Nav, int, error) {
	cfg, err := app.loadConfig(cmd)
	if err != nil {
		return nil, 0, err
	}
	dir := app.docsRoot(cfg)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("docs directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, 0, fmt.Errorf("docs directory %s is not a directory", dir)
	}
	return builder.Build(os.DirFS(dir), cfg, app.logger)
}

func newResolveCommand(app *appConfig) *cobra.Command {
	var (
		format string
		output string
		opts   builder.BuildOptions
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the navigation and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, pages, err := app.build(cmd)
			if err != nil {
				return fmt.Errorf("navigation could not be resolved: %w", err)
			}
			app.logger.Debug("Navigation resolved", zap.Int("pages", pages), zap.Int("entries", len(n)))

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return builder.Render(w, n, format, opts)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: "+strings.Join(builder.Formats, ", ")+".")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout.")
	cmd.Flags().BoolVar(&opts.Unsafe, "unsafe", false, "Disable HTML sanitization.")
	cmd.Flags().BoolVar(&opts.HTMLLinks, "html-links", false, "Rewrite .md links to .html in HTML output.")
	return cmd
}

func newServeCommand(app *appConfig) *cobra.Command {
	var opts server.Options
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the docs with a live navigation preview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd)
			if err != nil {
				return err
			}
			opts.DocsDir = app.docsRoot(cfg)
			opts.ConfigFile = app.configFile

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			build := func() (nav.Nav, int, error) {
				n, pages, err := app.build(cmd)
				if err == nil {
					fmt.Printf("📄 Navigation: %d pages.\n", pages)
				}
				return n, pages, err
			}
			return server.Run(ctx, opts, build, app.logger)
		},
	}
	cmd.Flags().IntVarP(&opts.Port, "port", "p", 1313, "Port for the local preview server.")
	cmd.Flags().StringVar(&opts.Title, "title", "Navigation", "Title of the preview page.")
	cmd.Flags().BoolVar(&opts.Render.Unsafe, "unsafe", false, "Disable HTML sanitization.")
	cmd.Flags().BoolVar(&opts.Render.HTMLLinks, "html-links", false, "Rewrite .md links to .html.")
	return cmd
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init <name>",
		Short: "Create a new docs project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return scaffold.CreateNewProject(args[0])
		},
	}
}

func newPageCommand(app *appConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "new <dir> <title>",
		Short: "Create a page and link it from the directory's nav document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd)
			if err != nil {
				return err
			}
			_, err = scaffold.CreateNewPage(filepath.Dir(app.configFile), cfg, args[0], args[1])
			return err
		},
	}
}
