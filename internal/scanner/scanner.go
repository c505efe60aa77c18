// Package scanner classifies the image files of a directory tree by parsing
// their names, optionally probing the image headers for dimensions.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for DecodeConfig
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kozaktomas/mirage/internal/constants"
	"github.com/kozaktomas/mirage/internal/filenamer"
	"github.com/kozaktomas/mirage/internal/imageref"
)

// Result describes one classified image file.
type Result struct {
	Path        string        `json:"path" yaml:"path"`
	CatID       string        `json:"cat_id" yaml:"cat_id"`
	Version     string        `json:"version" yaml:"version"`
	Type        imageref.Type `json:"type" yaml:"type"`
	Features    []string      `json:"features" yaml:"features"`
	CroppedHash string        `json:"cropped_hash,omitempty" yaml:"cropped_hash,omitempty"`
	Format      string        `json:"format,omitempty" yaml:"format,omitempty"`
	Width       int           `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int           `json:"height,omitempty" yaml:"height,omitempty"`

	Ref *imageref.Ref `json:"-" yaml:"-"`
}

// Options tunes a scan.
type Options struct {
	Concurrency int
	Dimensions  bool
	// Progress is called once per processed file, from worker goroutines.
	Progress func()
}

// Scanner walks directories and classifies image files.
type Scanner struct {
	namers     *filenamer.Registry
	classifier *filenamer.Classifier
	logger     *zap.Logger
}

// New returns a scanner. A nil logger disables logging.
func New(namers *filenamer.Registry, classifier *filenamer.Classifier, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{namers: namers, classifier: classifier, logger: logger}
}

// Listing is the outcome of walking a directory tree.
type Listing struct {
	Images   []string
	Sidecars []string
	Skipped  []string
}

// List walks root and sorts regular files into images, sidecars and the rest.
func (s *Scanner) List(root string) (*Listing, error) {
	listing := &Listing{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		switch {
		case s.classifier.IsImage(path):
			listing.Images = append(listing.Images, path)
		case s.classifier.HasSidecarSuffix(path):
			listing.Sidecars = append(listing.Sidecars, path)
		default:
			listing.Skipped = append(listing.Skipped, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	s.logger.Debug("directory listed",
		zap.String("root", root),
		zap.Int("images", len(listing.Images)),
		zap.Int("sidecars", len(listing.Sidecars)),
		zap.Int("skipped", len(listing.Skipped)),
	)
	return listing, nil
}

// Scan classifies paths with a bounded worker pool. Results come back sorted
// by path; files that fail to parse are reported in the error slice instead.
func (s *Scanner) Scan(ctx context.Context, paths []string, opts Options) ([]Result, []error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrency
	}
	if concurrency > constants.MaxConcurrency {
		concurrency = constants.MaxConcurrency
	}

	results := make([]*Result, len(paths))
	var errs []error
	var mu sync.Mutex
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i := range paths {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", path, ctx.Err()))
				mu.Unlock()
				return
			}

			res, err := s.classify(path, opts.Dimensions)
			mu.Lock()
			if err != nil {
				errs = append(errs, err)
			} else {
				results[idx] = res
			}
			mu.Unlock()

			if opts.Progress != nil {
				opts.Progress()
			}
		}(i, paths[i])
	}
	wg.Wait()

	valid := make([]Result, 0, len(results))
	for _, res := range results {
		if res != nil {
			valid = append(valid, *res)
		}
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Path < valid[j].Path })
	s.logger.Info("scan finished",
		zap.Int("files", len(paths)),
		zap.Int("classified", len(valid)),
		zap.Int("errors", len(errs)),
	)
	return valid, errs
}

func (s *Scanner) classify(path string, dimensions bool) (*Result, error) {
	ref, err := s.namers.Parse(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ref.SetFullPath(path)

	res := &Result{
		Path:        path,
		CatID:       ref.CalcCatID(),
		Version:     ref.Version(),
		Type:        ref.Type(),
		Features:    ref.FeatureNames(),
		CroppedHash: ref.CroppedHash(),
		Ref:         ref,
	}
	if dimensions {
		s.probe(res)
	}
	return res, nil
}

// probe fills in the header dimensions. Formats without a registered
// decoder, such as NITF or JPEG 2000, are left without dimensions.
func (s *Scanner) probe(res *Result) {
	f, err := os.Open(res.Path)
	if err != nil {
		s.logger.Warn("cannot open image", zap.String("path", res.Path), zap.Error(err))
		return
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		if !errors.Is(err, image.ErrFormat) {
			s.logger.Warn("cannot read image header", zap.String("path", res.Path), zap.Error(err))
		}
		return
	}
	res.Format = format
	res.Width = cfg.Width
	res.Height = cfg.Height
}
