package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/mirage/internal/imageref"
	"github.com/kozaktomas/mirage/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Classify every image in a directory tree by its filename",
	Long: `Walk a directory tree, parse the name of every image file and report its
type and features. Sidecar files such as overviews and histograms are skipped.

Examples:
  # Summary table
  mirage scan /data/deliveries

  # Include image dimensions where the format can be probed
  mirage scan --dimensions /data/deliveries

  # Output as JSON
  mirage scan --json /data/deliveries`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("json", false, "Output as JSON")
	scanCmd.Flags().Bool("dimensions", false, "Read image headers for width and height")
	scanCmd.Flags().Int("concurrency", 0, "Number of parallel workers (default from SCAN_CONCURRENCY)")
}

// scanReport is the JSON output of the scan command.
type scanReport struct {
	Root     string           `json:"root"`
	Count    int              `json:"count"`
	Sidecars int              `json:"sidecars"`
	Skipped  int              `json:"skipped"`
	Types    map[string]int   `json:"types"`
	Files    []scanner.Result `json:"files"`
	Errors   []string         `json:"errors,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	dimensions := mustGetBool(cmd, "dimensions")
	concurrency := mustGetInt(cmd, "concurrency")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if concurrency <= 0 {
		concurrency = a.cfg.Scan.Concurrency
	}

	s := scanner.New(a.namers, a.classifier, a.logger)
	listing, err := s.List(args[0])
	if err != nil {
		return err
	}

	bar := newScanProgressBar(len(listing.Images), "Classifying files", jsonOutput)
	opts := scanner.Options{Concurrency: concurrency, Dimensions: dimensions}
	if bar != nil {
		opts.Progress = func() { bar.Add(1) }
	}
	results, errs := s.Scan(cmd.Context(), listing.Images, opts)
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	report := scanReport{
		Root:     args[0],
		Count:    len(results),
		Sidecars: len(listing.Sidecars),
		Skipped:  len(listing.Skipped),
		Types:    countTypes(results),
		Files:    results,
	}
	for _, e := range errs {
		report.Errors = append(report.Errors, e.Error())
	}

	if jsonOutput {
		return writeStructured(outputJSON, report)
	}
	printScanReport(report, dimensions)
	return nil
}

// relPath shortens path to its position under root when possible.
func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func countTypes(results []scanner.Result) map[string]int {
	counts := make(map[string]int)
	for i := range results {
		counts[results[i].Type.String()]++
	}
	return counts
}

// newScanProgressBar creates a progress bar for file classification, or nil if JSON output.
func newScanProgressBar(count int, description string, jsonOutput bool) *progressbar.ProgressBar {
	if jsonOutput {
		return nil
	}
	return progressbar.NewOptions(count,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
}

func printScanReport(report scanReport, dimensions bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "FILE\tTYPE\tCATALOG ID\tFEATURES"
	rule := "----\t----\t----------\t--------"
	if dimensions {
		header += "\tDIMENSIONS"
		rule += "\t----------"
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, rule)

	for i := range report.Files {
		r := &report.Files[i]
		line := fmt.Sprintf("%s\t%s\t%s\t%s",
			relPath(report.Root, r.Path), coloredType(r.Type), r.CatID, strings.Join(r.Features, ","))
		if dimensions {
			dims := ""
			if r.Width > 0 && r.Height > 0 {
				dims = fmt.Sprintf("%dx%d", r.Width, r.Height)
			}
			line += "\t" + dims
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d images, %d sidecars, %d other files\n", report.Count, report.Sidecars, report.Skipped)
	for _, t := range []imageref.Type{
		imageref.TypeOriginal, imageref.TypeProcessed, imageref.TypeCropped,
		imageref.TypeThumbnail, imageref.TypeThumbnailOverlay, imageref.TypeInvalid,
	} {
		if n := report.Types[t.String()]; n > 0 {
			fmt.Printf("  %-18s %d\n", t.String()+":", n)
		}
	}
	if len(report.Errors) > 0 {
		fmt.Printf("\nErrors: %d\n", len(report.Errors))
		for _, e := range report.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}
