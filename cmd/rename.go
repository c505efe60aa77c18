package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kozaktomas/mirage/internal/filenamer"
	"github.com/kozaktomas/mirage/internal/imageref"
	"github.com/kozaktomas/mirage/internal/params"
	"github.com/kozaktomas/mirage/internal/scanner"
)

var renameCmd = &cobra.Command{
	Use:   "rename <dir>",
	Short: "Record additional processing in the filenames of a directory",
	Long: `Merge features into the processing parameters of every image under a
directory and rename the image, together with its sidecar files, to the
re-encoded filename. Features of unique groups replace the existing member
of their group.

Examples:
  # Preview marking every image as pan-sharpened GeoTIFF
  mirage rename /data/out --add pan-sharpened --add format-geotiff --dry-run

  # Record a 30% sharpen
  mirage rename /data/out --add "ossim-sharpen 30"`,
	Args: cobra.ExactArgs(1),
	RunE: runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)

	renameCmd.Flags().StringArray("add", nil, "Feature name to add (repeatable)")
	renameCmd.Flags().Bool("dry-run", false, "Print the renames without applying them")
	renameCmd.MarkFlagRequired("add")
}

// renameOp moves one file.
type renameOp struct {
	From string
	To   string
}

// renamePlan lists the moves of one image followed by those of its sidecars.
type renamePlan struct {
	Image    renameOp
	Sidecars []renameOp
}

func runRename(cmd *cobra.Command, args []string) error {
	add := mustGetStringArray(cmd, "add")
	dryRun := mustGetBool(cmd, "dry-run")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	s := scanner.New(a.namers, a.classifier, a.logger)
	listing, err := s.List(args[0])
	if err != nil {
		return err
	}
	results, errs := s.Scan(cmd.Context(), listing.Images, scanner.Options{Concurrency: a.cfg.Scan.Concurrency})

	plans, planErrs := planRenames(a.namers, a.classifier, results, listing.Sidecars, add)
	errs = append(errs, planErrs...)

	bar := newScanProgressBar(len(plans), "Renaming files", dryRun)
	applied := 0
	for _, plan := range plans {
		if dryRun {
			printPlan(plan)
			continue
		}
		if err := applyPlan(plan); err != nil {
			errs = append(errs, err)
		} else {
			applied++
			a.logger.Info("renamed image",
				zap.String("from", plan.Image.From),
				zap.String("to", plan.Image.To),
				zap.Int("sidecars", len(plan.Sidecars)),
			)
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	if dryRun {
		fmt.Printf("\n%d images would be renamed\n", len(plans))
	} else {
		fmt.Printf("\nRenamed %d of %d images\n", applied, len(plans))
	}
	if len(errs) > 0 {
		fmt.Printf("\nErrors: %d\n", len(errs))
		for _, e := range errs {
			fmt.Printf("  - %v\n", e)
		}
		return fmt.Errorf("%d files could not be renamed", len(errs))
	}
	return nil
}

// planRenames computes the new names of every classified image once the
// features in add are merged in. Images whose name would not change are left
// out; INVALID images are reported as errors.
func planRenames(namers *filenamer.Registry, classifier *filenamer.Classifier,
	results []scanner.Result, sidecars []string, add []string,
) ([]renamePlan, []error) {
	var plans []renamePlan
	var errs []error

	for i := range results {
		ref := results[i].Ref
		if ref == nil {
			continue
		}
		plan, err := planRename(namers, classifier, ref, results[i].Path, sidecars, add)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if plan.Image.From != plan.Image.To {
			plans = append(plans, plan)
		}
	}
	return plans, errs
}

func planRename(namers *filenamer.Registry, classifier *filenamer.Classifier,
	ref *imageref.Ref, path string, sidecars []string, add []string,
) (renamePlan, error) {
	if ref.IsInvalid() {
		return renamePlan{}, fmt.Errorf("%s: processing token cannot be decoded", path)
	}
	n, err := namers.Get(ref.Version())
	if err != nil {
		return renamePlan{}, fmt.Errorf("%s: %w", path, err)
	}

	extra, err := params.FromFeatureNames(ref.Catalog(), strings.Join(add, ","))
	if err != nil {
		return renamePlan{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := ref.SetProcessing(extra); err != nil {
		return renamePlan{}, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	oldName := filepath.Base(path)
	newName := n.Filename(ref, true)
	plan := renamePlan{Image: renameOp{From: path, To: filepath.Join(dir, newName)}}

	stem := imageref.StripExt(oldName) + "."
	for _, sidecar := range sidecars {
		if filepath.Dir(sidecar) != dir || !classifier.IsSidecar(sidecar, oldName) {
			continue
		}
		// "a.tif" must not claim "ab.his"
		if !strings.HasPrefix(filepath.Base(sidecar), stem) {
			continue
		}
		plan.Sidecars = append(plan.Sidecars, renameOp{
			From: sidecar,
			To:   filepath.Join(dir, sidecarName(filepath.Base(sidecar), oldName, newName)),
		})
	}
	return plan, nil
}

// sidecarName carries the suffix of a sidecar over to the new image name. A
// sidecar named after the full image name keeps the new extension too.
func sidecarName(sidecar, oldImage, newImage string) string {
	if rest, ok := strings.CutPrefix(sidecar, oldImage); ok {
		return newImage + rest
	}
	rest := strings.TrimPrefix(sidecar, imageref.StripExt(oldImage))
	return imageref.StripExt(newImage) + rest
}

func applyPlan(plan renamePlan) error {
	ops := append([]renameOp{plan.Image}, plan.Sidecars...)
	for _, op := range ops {
		if _, err := os.Stat(op.To); err == nil {
			return fmt.Errorf("%s: target %s already exists", op.From, op.To)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", op.To, err)
		}
	}
	for _, op := range ops {
		if err := os.Rename(op.From, op.To); err != nil {
			return fmt.Errorf("renaming %s: %w", op.From, err)
		}
	}
	return nil
}

func printPlan(plan renamePlan) {
	fmt.Printf("%s -> %s\n", plan.Image.From, filepath.Base(plan.Image.To))
	for _, op := range plan.Sidecars {
		fmt.Printf("  %s -> %s\n", filepath.Base(op.From), filepath.Base(op.To))
	}
}
