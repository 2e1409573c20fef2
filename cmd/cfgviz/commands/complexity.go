package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/l3aro/cfgviz/pkg/complexity"
	"github.com/spf13/cobra"
)

// complexityCmd represents the complexity command
var complexityCmd = &cobra.Command{
	Use:   "complexity",
	Short: "Score functions by cyclomatic complexity",
	Long: `Computes the cyclomatic complexity (decision points + 1) of every
function in a Python file. Without --file the embedded example is scored.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		src, srcName, err := readSource(file)
		if err != nil {
			return err
		}

		scores, err := complexity.Analyze(cmd.Context(), src)
		if err != nil {
			return fmt.Errorf("analyzing %s: %w", srcName, err)
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			data, err := json.MarshalIndent(scores, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		printScores(cmd.OutOrStdout(), srcName, scores)
		return nil
	},
}

func printScores(out io.Writer, srcName string, scores []complexity.Score) {
	fmt.Fprintf(out, "File: %s\n", srcName)
	if len(scores) == 0 {
		fmt.Fprintln(out, "No functions found")
		return
	}
	for _, s := range scores {
		fmt.Fprintf(out, "  %-32s L%-5d complexity %d\n", s.Name, s.StartLine, s.Complexity)
	}
}

func init() {
	complexityCmd.Flags().String("file", "", "Python file to analyze (default: embedded example)")
	complexityCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}
