package cli

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docseek/internal/adapter/extract"
	"docseek/internal/adapter/fs"
	"docseek/internal/adapter/memstore"
	"docseek/internal/adapter/store"
	"docseek/internal/port"
	"docseek/internal/usecase"
)

var (
	indexOutput     string
	indexRecursive  bool
	indexWorkers    int
	indexFormat     string
	indexNoProgress bool
	indexDryRun     bool
)

var indexCmd = &cobra.Command{
	Use:   "index <folder>",
	Short: "Index a folder of documents",
	Long: `Build a fresh index of the documents in a folder and write it to a
single file. Sub-folders are only scanned with --recursive.

Examples:
  docseek index docs.gl/gl4                       # writes index.json
  docseek index docs.gl -r -o gl.db --format bolt # recursive, bbolt file
  docseek index docs.gl/gl4 --dry-run             # report only, write nothing`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVarP(&indexOutput, "output", "o", "", "index file to write (default from config)")
	indexCmd.Flags().BoolVarP(&indexRecursive, "recursive", "r", false, "descend into sub-folders")
	indexCmd.Flags().IntVarP(&indexWorkers, "workers", "w", 0, "parallel workers (default from config, 0 = one per CPU)")
	indexCmd.Flags().StringVar(&indexFormat, "format", "", "index format: json, yaml or bolt (default from extension; must match -o)")
	indexCmd.Flags().BoolVar(&indexNoProgress, "no-progress", false, "disable the progress bar")
	indexCmd.Flags().BoolVar(&indexDryRun, "dry-run", false, "build the index in memory and report, without writing a file")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	root := args[0]
	out := cmd.OutOrStdout()

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", root)
	}

	if cmd.Flags().Changed("recursive") {
		cfg.Index.Recursive = indexRecursive
	}
	if cmd.Flags().Changed("workers") {
		cfg.Index.Workers = indexWorkers
	}
	output, err := indexOutputPath(cfg.Index.Output, indexOutput, indexFormat)
	if err != nil {
		return err
	}
	format := cfg.Index.Format
	if indexFormat != "" {
		format = indexFormat
	}
	var st port.IndexStore
	if indexDryRun {
		st = memstore.NewMemoryStore()
	} else {
		st, err = store.ForPath(output, format)
		if err != nil {
			return err
		}
	}

	walker := fs.NewWalker(cfg.Index.Includes, cfg.Index.Excludes, cfg.Index.Recursive)
	indexUC := usecase.NewIndexUseCase(walker, extract.NewByExtension(), st, cfg.Index.Workers)

	fmt.Fprintf(out, "Scanning %s...\n", root)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	progressCallback := func(processed, total int, currentFile string) {
		if indexNoProgress {
			return
		}
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)
		}

		_ = bar.Set(processed)

		elapsed := time.Since(startTime)
		rate := float64(processed) / elapsed.Seconds()
		if rate > 0 {
			eta := time.Duration(float64(total-processed)/rate) * time.Second
			bar.Describe(fmt.Sprintf("[cyan]Indexing[reset] ETA: %s", formatDuration(eta)))
		}
	}

	result, err := indexUC.Index(cmd.Context(), root, output, progressCallback)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(out, "\nIndexing complete:\n")
	fmt.Fprintf(out, "  Files indexed:  %d\n", result.FilesIndexed)
	fmt.Fprintf(out, "  Files skipped:  %d\n", result.FilesSkipped)
	fmt.Fprintf(out, "  Unique terms:   %d\n", result.Terms)
	fmt.Fprintf(out, "  Tokens:         %d\n", result.Tokens)
	fmt.Fprintf(out, "  Duration:       %s\n", formatDuration(result.Duration))

	if len(result.Warnings) > 0 {
		fmt.Fprintf(out, "\nWarnings:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	if indexDryRun {
		fmt.Fprintf(out, "\nDry run: no index written (would be %s)\n", output)
		return nil
	}
	fmt.Fprintf(out, "\nIndex stored at: %s\n", output)
	return nil
}

// indexOutputPath resolves where the index is written. Readers pick the
// store from the file extension, so --format must agree with an explicit
// -o, and without -o the configured path takes the format's extension.
func indexOutputPath(configured, flagOutput, flagFormat string) (string, error) {
	if flagFormat == "" {
		if flagOutput != "" {
			return flagOutput, nil
		}
		return configured, nil
	}
	format, err := store.ParseFormat(flagFormat)
	if err != nil {
		return "", err
	}
	if flagOutput == "" {
		return store.WithExtension(configured, format), nil
	}
	if ext := store.FormatForPath(flagOutput); ext != "" && ext != format {
		return "", fmt.Errorf("--format %s does not match the extension of %s (%s)", flagFormat, flagOutput, ext)
	}
	return flagOutput, nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}
