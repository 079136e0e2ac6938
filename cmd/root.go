package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"squish/internal/shrinker"
	"squish/internal/tui"
)

var (
	rootQuality int
	rootSize    int
	rootPath    string
	rootExclude []string
)

var rootCmd = &cobra.Command{
	Use:   "squish",
	Short: "squish - shrink oversized images in place",
	Long: "squish recursively finds raster images whose longest side exceeds a pixel bound,\n" +
		"resizes them with Lanczos resampling, and re-saves them in place with optimized compression.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if rootQuality < 0 || rootQuality > 100 {
			return fmt.Errorf("--quality must be in 0-100, got %d", rootQuality)
		}
		if rootSize <= 0 {
			return fmt.Errorf("--size must be a positive pixel bound, got %d", rootSize)
		}
		if err := validateExcludes(rootExclude); err != nil {
			return err
		}

		dir := rootPath
		if dir == "" {
			var err error
			dir, err = promptForPath(cmd)
			if err != nil {
				return err
			}
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
			// the TUI exiting early (it handles Ctrl+C itself in raw
			// mode) must also stop the walk
			cancel()
			close(uiDone)
		}()

		summary, _, err := shrinker.Run(ctx, dir, shrinker.Options{
			Mode:     shrinker.ModeShrink,
			MaxDim:   rootSize,
			Quality:  rootQuality,
			Excludes: rootExclude,
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

		rows := []tui.SummaryRow{
			{Label: "Images found", Value: fmt.Sprintf("%d", summary.Found)},
			{Label: "Compressed", Value: fmt.Sprintf("%d", summary.Compressed)},
			{Label: fmt.Sprintf("Skipped (under %dpx)", rootSize), Value: fmt.Sprintf("%d", summary.Skipped)},
			{Label: "Failed", Value: fmt.Sprintf("%d", summary.Failed)},
			{Label: "Bytes saved", Value: fmt.Sprintf("%d", summary.BytesSaved)},
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))
		return nil
	},
}

func validateExcludes(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid --exclude pattern %q", pattern)
		}
	}
	return nil
}

func promptForPath(cmd *cobra.Command) (string, error) {
	fmt.Fprint(os.Stdout, "Enter the path to the folder containing images: ")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no path given")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().IntVar(&rootQuality, "quality", 85, "JPEG compression quality (0-100)")
	rootCmd.Flags().IntVar(&rootSize, "size", 720, "maximum dimension in pixels")
	rootCmd.Flags().StringVar(&rootPath, "path", "", "folder containing images (prompted for when omitted)")
	rootCmd.Flags().StringArrayVar(&rootExclude, "exclude", nil, "glob pattern (relative to --path) to skip; repeatable")
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
