// Package commands provides the CLI commands for cfgviz.
package commands

import (
	"fmt"
	"os"

	"github.com/l3aro/cfgviz/internal/config"
	"github.com/l3aro/cfgviz/internal/log"
	"github.com/l3aro/cfgviz/pkg/sample"
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cfgviz",
	Short: "cfgviz - Render a Python function as a control flow diagram",
	Long: `cfgviz parses one Python function and writes an approximate control flow
graph as DOT (or JSON/msgpack) for visualization.

Without --file it analyzes the embedded analyze_user_behavior example.

Commands:
  render      Write the flow graph of a function
  complexity  Score functions by cyclomatic complexity
  functions   List the functions defined in a file
  init        Create a configuration file interactively

Use "cfgviz [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.cfgviz and ./.cfgviz)")
	RootCmd.PersistentFlags().Bool("verbose", false, "Verbose logging")

	RootCmd.AddCommand(renderCmd)
	RootCmd.AddCommand(complexityCmd)
	RootCmd.AddCommand(functionsCmd)
	RootCmd.AddCommand(initCmd)
}

// loadConfig reads the config file named by --config, or the layered
// defaults, and applies --verbose.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	}
	return cfg, nil
}

// newLogger builds the command logger on the command's error stream.
func newLogger(cmd *cobra.Command, cfg *config.Config) log.Logger {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	return log.New(log.LoggerConfig{
		Level:      level,
		JSONOutput: cfg.JSONLogs,
		Output:     cmd.ErrOrStderr(),
	})
}

// readSource returns the contents of file, or the embedded example when file
// is empty, along with the name to report it under.
func readSource(file string) ([]byte, string, error) {
	if file == "" {
		return sample.Source, sample.FileName, nil
	}

	info, err := os.Stat(file)
	if err != nil {
		return nil, "", fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, "", fmt.Errorf("path is a directory, expected a file: %s", file)
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return nil, "", fmt.Errorf("reading file %s: %w", file, err)
	}
	return content, file, nil
}
