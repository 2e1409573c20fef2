package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/l3aro/cfgviz/internal/config"
	"github.com/l3aro/cfgviz/pkg/render"
	"github.com/l3aro/cfgviz/pkg/walker"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file interactively",
	Long: `Guides you through setting up cfgviz step by step.
Creates a config file with the function, output and graph settings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd.OutOrStdout())
	},
}

func runInit(out io.Writer) error {
	cfg := config.DefaultConfig()

	// === SECTION 1: Target ===
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Function to analyze").
				Placeholder(cfg.Function).
				Value(&cfg.Function),
			huh.NewInput().
				Title("Output file").
				Description("The format extension is added when missing").
				Placeholder(cfg.Output).
				Value(&cfg.Output),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 2: Graph ===
	formatOptions := make([]huh.Option[string], 0, len(render.Formats()))
	for _, f := range render.Formats() {
		formatOptions = append(formatOptions, huh.NewOption(string(f), string(f)))
	}

	width := strconv.Itoa(cfg.LabelWidth)
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Options(formatOptions...).
				Value(&cfg.Format),
			huh.NewSelect[string]().
				Title("Walk mode").
				Description("Compat draws the legacy layout; join adds merge vertices").
				Options(
					huh.NewOption("Compat", string(walker.ModeCompat)),
					huh.NewOption("Join", string(walker.ModeJoin)),
				).
				Value(&cfg.Mode),
			huh.NewSelect[string]().
				Title("Rank direction").
				Options(
					huh.NewOption("Left to right", "LR"),
					huh.NewOption("Top to bottom", "TB"),
					huh.NewOption("Right to left", "RL"),
					huh.NewOption("Bottom to top", "BT"),
				).
				Value(&cfg.RankDir),
			huh.NewInput().
				Title("Label width").
				Placeholder(width).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(s); err != nil || n < 10 {
						return fmt.Errorf("enter a number of at least 10")
					}
					return nil
				}).
				Value(&width),
			huh.NewConfirm().
				Title("Walk expression nodes too?").
				Value(&cfg.Expressions),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}
	cfg.LabelWidth, _ = strconv.Atoi(width)

	// === SECTION 3: Config Location ===
	var saveLocationChoice string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save Configuration").
				Description("Where to save the configuration file?").
				Options(
					huh.NewOption("Project (./.cfgviz/config.yaml)", "project"),
					huh.NewOption("Global (~/.cfgviz/config.yaml)", "global"),
				).
				Value(&saveLocationChoice),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	configPath := config.ProjectConfigFilePath()
	if saveLocationChoice == "global" {
		configPath = config.GlobalConfigFilePath()
	}

	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Config file exists").
					Description(fmt.Sprintf("Overwrite existing config at %s?", configPath)).
					Affirmative("Overwrite").
					Negative("Cancel").
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	fmt.Fprintln(out, "\n=== Configuration Preview ===")
	fmt.Fprintf(out, "Config path: %s\n", configPath)
	fmt.Fprintf(out, "Function: %s\n", cfg.Function)
	fmt.Fprintf(out, "Output: %s (%s)\n", cfg.Output, cfg.Format)
	fmt.Fprintf(out, "Mode: %s\n", cfg.Mode)
	fmt.Fprintf(out, "Rank direction: %s\n", cfg.RankDir)
	fmt.Fprintf(out, "Label width: %d\n", cfg.LabelWidth)
	fmt.Fprintln(out, "================================")

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(out, "Configuration saved to: %s\n", configPath)
	return nil
}
