package shrinker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"squish/pkg/imgutil"
)

// Run walks every regular file under root, shrinking each candidate image
// and aggregating per-file outcomes into a Summary. Per-file failures are
// contained in the loop; only a bad root or a cancelled context reaches
// the caller. The walk is strictly sequential: one file is fully handled
// before the next is considered.
func Run(ctx context.Context, root string, opts Options, updates chan<- ProgressUpdate) (Summary, []Result, error) {
	summary := Summary{}
	var results []Result

	info, err := os.Stat(root)
	if err != nil {
		return summary, nil, err
	}
	if !info.IsDir() {
		return summary, nil, fmt.Errorf("%s is not a directory", root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return summary, nil, err
	}

	send := func(update ProgressUpdate) {
		if updates == nil {
			return
		}
		if ctx == nil {
			updates <- update
			return
		}
		// never block on a consumer that has gone away
		select {
		case updates <- update:
		case <-ctx.Done():
		}
	}

	record := func(res Result) {
		update := ProgressUpdate{BytesSavedDelta: res.BytesSaved}
		switch res.Outcome {
		case OutcomeCompressed:
			summary.Compressed++
			update.CompressedDelta = 1
		case OutcomeSkipped:
			summary.Skipped++
			update.SkippedDelta = 1
		default:
			summary.Failed++
			update.FailedDelta = 1
		}
		summary.BytesSaved += res.BytesSaved
		results = append(results, res)
		send(update)
	}

	fsys := os.DirFS(absRoot)
	walkErr := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, entryErr error) error {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if entryErr != nil {
			if path == "." {
				return entryErr
			}
			// an unreadable entry must not abort the walk
			if imgutil.CandidateExt(path) {
				summary.Found++
				send(ProgressUpdate{FoundDelta: 1})
				record(Result{
					Path:    filepath.Join(absRoot, path),
					RelPath: path,
					Outcome: OutcomeFailed,
					Err:     entryErr,
				})
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if path != "." && excluded(path, opts.Excludes) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !imgutil.CandidateExt(path) {
			return nil
		}

		summary.Found++
		send(ProgressUpdate{FoundDelta: 1})

		res := ShrinkFile(filepath.Join(absRoot, path), opts)
		res.RelPath = path
		record(res)
		return nil
	})

	if walkErr != nil && !errors.Is(walkErr, context.Canceled) {
		return summary, results, walkErr
	}

	return summary, results, nil
}

func excluded(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, filepath.ToSlash(relPath)); err == nil && ok {
			return true
		}
	}
	return false
}
