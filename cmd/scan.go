package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"squish/internal/shrinker"
	"squish/internal/tui"
)

var (
	scanSize    int
	scanExclude []string
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Report oversized images without modifying files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		if scanSize <= 0 {
			return fmt.Errorf("--size must be a positive pixel bound, got %d", scanSize)
		}
		if err := validateExcludes(scanExclude); err != nil {
			return err
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("directory %q not found", dir)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		updates := make(chan shrinker.ProgressUpdate, 64)
		model := tui.NewModel(updates)
		program := tea.NewProgram(model)

		uiDone := make(chan struct{})
		go func() {
			_, _ = program.Run()
			cancel()
			close(uiDone)
		}()

		summary, results, err := shrinker.Run(ctx, dir, shrinker.Options{
			Mode:     shrinker.ModeScan,
			MaxDim:   scanSize,
			Excludes: scanExclude,
		}, updates)
		cancelled := ctx.Err() != nil
		close(updates)
		<-uiDone

		if cancelled {
			fmt.Fprintln(os.Stdout, "Operation cancelled.")
			return nil
		}
		if err != nil {
			return err
		}

		for _, res := range results {
			switch res.Outcome {
			case shrinker.OutcomeCompressed:
				fmt.Fprintf(os.Stdout, "%s %s\n",
					scanFileStyle.Render(res.RelPath),
					scanDimStyle.Render(fmt.Sprintf("%dx%d -> %dx%d",
						res.OldWidth, res.OldHeight, res.NewWidth, res.NewHeight)),
				)
			case shrinker.OutcomeFailed:
				fmt.Fprintf(os.Stdout, "%s %s\n",
					scanFileStyle.Render(res.RelPath),
					scanErrStyle.Render(fmt.Sprintf("error: %v", res.Err)),
				)
			}
		}

		fmt.Fprintf(os.Stdout, "\n%d of %d images exceed %dpx\n",
			summary.Compressed, summary.Found, scanSize)
		return nil
	},
}

var (
	scanFileStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	scanDimStyle  = lipgloss.NewStyle().Foreground(tui.ColorInk)
	scanErrStyle  = lipgloss.NewStyle().Foreground(tui.ColorWarn)
)

func init() {
	scanCmd.Flags().IntVar(&scanSize, "size", 720, "maximum dimension in pixels")
	scanCmd.Flags().StringArrayVar(&scanExclude, "exclude", nil, "glob pattern (relative to the root) to skip; repeatable")

	rootCmd.AddCommand(scanCmd)
}
