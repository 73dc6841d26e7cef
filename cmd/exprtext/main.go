package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/fang"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bagoum/exprtext/pkg/render"
)

// Config holds the application configuration
type Config struct {
	Debug          bool
	Form           string
	ConfigFile     string
	Dump           bool
	StripNamespace bool
	IdentSpaces    int
}

// fileConfig is the optional TOML render configuration.
type fileConfig struct {
	StripNamespace bool `toml:"strip_namespace"`
	IdentSpaces    int  `toml:"ident_spaces"`
}

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "exprtext [flags] [sample]",
		Short: "Expression tree renderer",
		Long: `exprtext renders expression trees two ways: builder form (code that
reconstructs the tree) and surface form (directly compilable source).
Run without arguments to list the built-in sample trees.`,
		Example: `  # List available samples
  exprtext

  # Render a sample as surface source
  exprtext --form surface add

  # Render both forms concurrently
  exprtext --form both sumLoop`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cfg)
			if len(args) == 0 {
				return listSamples(cmd)
			}
			return run(cmd.Context(), cmd, cfg, args[0])
		},
	}

	rootCmd.Flags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&cfg.Form, "form", "f", "surface", "Output form: builder, surface, or both")
	rootCmd.Flags().StringVarP(&cfg.ConfigFile, "config", "c", "", "Path to a TOML render configuration file")
	rootCmd.Flags().BoolVar(&cfg.Dump, "dump", false, "Dump the tree structure before rendering")
	rootCmd.Flags().BoolVar(&cfg.StripNamespace, "strip-namespace", false, "Drop namespace qualifiers from type names")
	rootCmd.Flags().IntVar(&cfg.IdentSpaces, "ident-spaces", 0, "Indentation width (0 uses per-form defaults)")

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion("dev"),
	); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cfg Config) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func listSamples(cmd *cobra.Command) error {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(cmd.OutOrStdout(), "Available samples:")
	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
	}
	return nil
}

func run(ctx context.Context, cmd *cobra.Command, cfg Config, sample string) error {
	build, ok := samples[sample]
	if !ok {
		return fmt.Errorf("unknown sample %q (run with no arguments to list them)", sample)
	}
	tree := build()

	if cfg.Dump {
		fmt.Fprintf(cmd.OutOrStdout(), "%# v\n", pretty.Formatter(tree))
	}

	opts, err := renderOptions(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(cfg.Form) {
	case "builder":
		text, regs := render.RenderBuilder(tree, opts...)
		slog.Debug("rendered builder form",
			"params", len(regs.Params), "exprs", len(regs.Exprs), "labels", len(regs.Labels))
		fmt.Fprintln(out, text)
	case "surface":
		fmt.Fprintln(out, render.ToSourceString(tree, opts...))
	case "both":
		// One buffer and registry set per render call; the two renders
		// share nothing and can run concurrently.
		var builderText, surfaceText string
		eg, _ := errgroup.WithContext(ctx)
		eg.Go(func() error {
			builderText = render.ToBuilderString(tree, opts...)
			return nil
		})
		eg.Go(func() error {
			surfaceText = render.ToSourceString(tree, opts...)
			return nil
		})
		if err := eg.Wait(); err != nil {
			return err
		}
		fmt.Fprintln(out, "// builder form")
		fmt.Fprintln(out, builderText)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "// surface form")
		fmt.Fprintln(out, surfaceText)
	default:
		return fmt.Errorf("unknown form %q: want builder, surface, or both", cfg.Form)
	}
	return nil
}

func renderOptions(cfg Config) ([]render.Option, error) {
	strip := cfg.StripNamespace
	spaces := cfg.IdentSpaces

	if cfg.ConfigFile != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(cfg.ConfigFile, &fc); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", cfg.ConfigFile, err)
		}
		slog.Debug("loaded render config", "path", cfg.ConfigFile)
		strip = strip || fc.StripNamespace
		if spaces == 0 {
			spaces = fc.IdentSpaces
		}
	}

	var opts []render.Option
	if strip {
		opts = append(opts, render.StripNamespace())
	}
	if spaces > 0 {
		opts = append(opts, render.IdentSpaces(spaces))
	}
	return opts, nil
}
