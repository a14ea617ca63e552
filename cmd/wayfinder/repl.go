package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aretw0/wayfinder/internal/presentation/graph"
	"github.com/aretw0/wayfinder/internal/scenario"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl <scenario>",
	Short: "Drive a scenario's app interactively",
	Long: `Builds the app described by a scenario and reads navigation commands from stdin,
one per line, printing the tree after each one. The scenario's steps are not run.

Commands: push, present [as <style>] [modal], open <url>, back, back to <ref> [last],
tab <id> [pop], dismiss, alert <title>, satisfy <id>, revoke <id>, pop, tree, quit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		return interact(ctx, runner, cmd.InOrStdin(), cmd.OutOrStdout(), render)
	},
}

func interact(ctx context.Context, runner *scenario.Runner, in io.Reader, out io.Writer, render func(string) (string, error)) error {
	printTree := func() {
		md := graph.GenerateMarkdown(runner.App().Snapshot())
		if text, err := render(md); err == nil {
			md = text
		}
		fmt.Fprintln(out, strings.TrimSpace(md))
	}

	printTree()
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "tree":
			printTree()
			continue
		}

		step, err := scenario.ParseCommand(line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if err := runner.Step(ctx, step); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(scenario.DefaultSettle):
		}
		printTree()
	}
}

func init() {
	rootCmd.AddCommand(replCmd)
}
