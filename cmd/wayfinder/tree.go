package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/wayfinder/internal/presentation/graph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var treeCmd = &cobra.Command{
	Use:   "tree <scenario>",
	Short: "Export the navigation tree reached by a scenario",
	Long: `Runs a scenario and prints the final navigation tree.
Formats: yaml (default), json, mermaid (graph TD) or markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "yaml", "json", "mermaid", "markdown":
		default:
			return fmt.Errorf("unknown format %q: supported yaml, json, mermaid, markdown", format)
		}

		runner, cleanup, err := newRunner(cmd.Context(), cmd, args[0])
		if err != nil {
			return err
		}
		defer cleanup()

		if err := runner.Run(cmd.Context(), nil); err != nil {
			return err
		}
		snap := runner.App().Snapshot()

		out := cmd.OutOrStdout()
		switch format {
		case "mermaid":
			fmt.Fprint(out, graph.GenerateMermaid(snap))
		case "markdown":
			fmt.Fprint(out, graph.GenerateMarkdown(snap))
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		default:
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(snap)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().StringP("format", "f", "yaml", "Output format: yaml, json, mermaid or markdown")
}
