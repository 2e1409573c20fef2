package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/l3aro/cfgviz/internal/config"
	"github.com/l3aro/cfgviz/internal/log"
	"github.com/l3aro/cfgviz/pkg/complexity"
	"github.com/l3aro/cfgviz/pkg/flowgraph"
	"github.com/l3aro/cfgviz/pkg/render"
	"github.com/l3aro/cfgviz/pkg/syntax"
	"github.com/l3aro/cfgviz/pkg/walker"
	"github.com/spf13/cobra"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the flow graph of a function",
	Long: `Parses a Python function and writes its flow graph.

Compat mode (default) draws the legacy layout: branches and loops
only hang their first statement, and the walk resumes from the condition or
loop header. Join mode chains every statement and joins branches at merge
vertices.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applyRenderFlags(cmd, cfg); err != nil {
			return err
		}
		logger := newLogger(cmd, cfg).With("function", cfg.Function)

		file, _ := cmd.Flags().GetString("file")
		src, srcName, err := readSource(file)
		if err != nil {
			return err
		}

		g, err := buildGraph(cmd.Context(), cfg, src, srcName, logger)
		if err != nil {
			return err
		}

		problems := g.Problems()
		for _, p := range problems {
			logger.Debug("disconnected vertex", "vertex", p.Vertex, "reason", p.Reason)
		}
		if strict, _ := cmd.Flags().GetBool("strict"); strict && len(problems) > 0 {
			return fmt.Errorf("graph has %d disconnected vertices (first: %s); try --mode join", len(problems), problems[0])
		}

		format, err := render.ParseFormat(cfg.Format)
		if err != nil {
			return err
		}
		path := render.OutputPath(cfg.Output, format)
		if err := render.WriteFile(path, g, format, cfg.RenderOptions()); err != nil {
			return err
		}

		logger.Debug("graph written", "path", path, "vertices", len(g.Vertices), "edges", len(g.Edges))
		fmt.Fprintf(cmd.OutOrStdout(), "CFG %s file generated: %s\n", format, path)
		return nil
	},
}

// applyRenderFlags copies explicitly set flags over the loaded config.
func applyRenderFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("function") {
		cfg.Function, _ = flags.GetString("function")
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("mode") {
		cfg.Mode, _ = flags.GetString("mode")
	}
	if flags.Changed("rankdir") {
		cfg.RankDir, _ = flags.GetString("rankdir")
	}
	if flags.Changed("expressions") {
		cfg.Expressions, _ = flags.GetBool("expressions")
	}
	if flags.Changed("title") {
		cfg.Title, _ = flags.GetBool("title")
	}
	return cfg.Validate()
}

// buildGraph parses and walks the configured function. A missing function is
// not fatal: it is reported and an empty graph is returned.
func buildGraph(ctx context.Context, cfg *config.Config, src []byte, srcName string, logger log.Logger) (*flowgraph.Graph, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	fn, err := syntax.ParseFunction(ctx, src, cfg.Function, syntax.Options{Expressions: cfg.Expressions})
	if errors.Is(err, syntax.ErrFunctionNotFound) {
		msg := fmt.Sprintf("function %q not found in %s", cfg.Function, srcName)
		if suggestions := similarFunctions(ctx, src, cfg.Function); len(suggestions) > 0 {
			msg += "; did you mean: " + strings.Join(suggestions, ", ") + "?"
		}
		logger.Warn(msg)
		return flowgraph.New(cfg.Function), nil
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", srcName, err)
	}

	w, err := walker.New(cfg.WalkerOptions())
	if err != nil {
		return nil, err
	}
	g := w.Walk(fn)
	logger.Debug("walked function", "mode", w.Mode(), "vertices", len(g.Vertices), "edges", len(g.Edges))

	if score, err := complexity.Function(ctx, src, cfg.Function); err == nil {
		logger.Info("cyclomatic complexity", "score", score)
	}
	return g, nil
}

// similarFunctions finds defined functions whose names resemble name.
func similarFunctions(ctx context.Context, src []byte, name string) []string {
	funcs, err := syntax.ListFunctions(ctx, src)
	if err != nil {
		return nil
	}
	return syntax.Suggest(name, funcs)
}

func init() {
	renderCmd.Flags().String("file", "", "Python file to analyze (default: embedded example)")
	renderCmd.Flags().String("function", "", "Function to analyze")
	renderCmd.Flags().StringP("output", "o", "", "Output file; the format extension is added when missing")
	renderCmd.Flags().StringP("format", "f", "", "Output format: dot, json or msgpack")
	renderCmd.Flags().String("mode", "", "Walk mode: compat or join")
	renderCmd.Flags().String("rankdir", "", "DOT rank direction: LR, RL, TB or BT")
	renderCmd.Flags().Bool("expressions", false, "Walk expression nodes too")
	renderCmd.Flags().Bool("title", false, "Add a graph title naming the function")
	renderCmd.Flags().Bool("strict", false, "Fail when a vertex lacks an incoming or outgoing edge")
}
