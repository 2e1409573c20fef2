package commands

import (
	"encoding/json"
	"fmt"

	"github.com/l3aro/cfgviz/pkg/syntax"
	"github.com/spf13/cobra"
)

// functionsCmd represents the functions command
var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the functions defined in a file",
	Long: `Lists the functions defined in a Python file with their parameters and line
range. Nested functions are included; methods inside class bodies are not.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		src, srcName, err := readSource(file)
		if err != nil {
			return err
		}

		funcs, err := syntax.ListFunctions(cmd.Context(), src)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", srcName, err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			data, err := json.MarshalIndent(funcs, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "File: %s\n", srcName)
		if len(funcs) == 0 {
			fmt.Fprintln(out, "No functions found")
			return nil
		}
		for _, f := range funcs {
			fmt.Fprintf(out, "  %s(%s)  L%d-%d\n", f.Name, f.Params, f.StartLine, f.EndLine)
		}
		return nil
	},
}

func init() {
	functionsCmd.Flags().String("file", "", "Python file to analyze (default: embedded example)")
	functionsCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}
