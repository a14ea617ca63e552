package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/presentation/graph"
	"github.com/aretw0/wayfinder/internal/presentation/tui"
	"github.com/aretw0/wayfinder/internal/scenario"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario>",
	Short: "Run a scenario and print the navigation tree after each step",
	Long: `Runs every step of a scenario file against a headless app. The tree is printed
as markdown after each step, styled when stdout is a terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner, cleanup, err := newRunner(ctx, cmd, args[0])
		if err != nil {
			return err
		}
		defer cleanup()

		render, err := markdownRenderer()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		return runner.Run(ctx, func(res scenario.Result) {
			status := "ok"
			if res.Err != nil {
				status = res.Err.Error()
			}
			fmt.Fprintf(out, "▸ step %d: %s (%s)\n", res.Index+1, res.Step, status)
			if quiet {
				return
			}
			text, err := render(graph.GenerateMarkdown(res.Tree))
			if err != nil {
				fmt.Fprintf(out, "%s\n", graph.GenerateMarkdown(res.Tree))
				return
			}
			fmt.Fprint(out, text)
		})
	},
}

// markdownRenderer styles output for terminals and falls back to plain text
// for pipes.
func markdownRenderer() (func(string) (string, error), error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return tui.NewPlainRenderer()
	}
	tui.PrintBanner(os.Stdout, strings.TrimSpace(wayfinder.Version))
	width, _, err := term.GetSize(fd)
	if err != nil {
		width = 0
	}
	return tui.NewRenderer(width)
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().BoolP("quiet", "q", false, "Only print step results")
}
