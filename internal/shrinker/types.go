package shrinker

import "squish/pkg/imgutil"

type Mode int

const (
	ModeShrink Mode = iota
	ModeScan
)

type Options struct {
	Mode     Mode
	MaxDim   int
	Quality  int
	Excludes []string
}

// Outcome tags the result of attempting to shrink one image file.
type Outcome int

const (
	OutcomeCompressed Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompressed:
		return "compressed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

type Result struct {
	Path      string
	RelPath   string
	Outcome   Outcome
	Format    imgutil.Kind
	OldWidth  int
	OldHeight int
	NewWidth  int
	NewHeight int
	// SavedPath differs from Path only on the fallback-to-JPEG branch,
	// where a sibling .jpg is written and the original is left alone.
	SavedPath  string
	BytesSaved int64
	Err        error
}

type Summary struct {
	Found      int
	Compressed int
	Skipped    int
	Failed     int
	BytesSaved int64
}

type ProgressUpdate struct {
	FoundDelta      int
	CompressedDelta int
	SkippedDelta    int
	FailedDelta     int
	BytesSavedDelta int64
}
