package shrinker

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// Decoders for every format the walker treats as a candidate and the
	// Go ecosystem can decode. AVIF and HEIC have no pure-Go decoder, so
	// those candidates fail at the decode step and count as failures.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"squish/pkg/imgutil"
)

// ShrinkFile decides whether the image at path exceeds opts.MaxDim,
// resizes it preserving aspect ratio, and re-saves it with compression.
// JPEG and PNG sources are overwritten in place; any other format is
// flattened to RGB and written as a sibling .jpg, leaving the original
// untouched. All failures are captured in the returned Result.
func ShrinkFile(path string, opts Options) Result {
	res := Result{Path: path, SavedPath: path}

	file, err := os.Open(path)
	if err != nil {
		return failed(res, err)
	}
	defer file.Close()

	srcInfo, err := file.Stat()
	if err != nil {
		return failed(res, err)
	}

	kind, err := imgutil.SniffReader(file)
	if err != nil {
		return failed(res, err)
	}
	res.Format = kind

	orientation := 1
	if kind == imgutil.KindJPEG || kind == imgutil.KindTIFF {
		orientation = readOrientation(file)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return failed(res, err)
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return failed(res, err)
	}

	// Re-encoding drops EXIF, so a stored orientation has to be baked
	// into the pixels or the output would render rotated.
	if orientation > 1 {
		img = applyOrientation(img, orientation)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	res.OldWidth, res.OldHeight = width, height

	if width <= opts.MaxDim && height <= opts.MaxDim {
		res.Outcome = OutcomeSkipped
		return res
	}

	res.NewWidth, res.NewHeight = targetDims(width, height, opts.MaxDim)

	if opts.Mode == ModeScan {
		res.Outcome = OutcomeCompressed
		return res
	}

	resized := imaging.Resize(img, res.NewWidth, res.NewHeight, imaging.Lanczos)

	switch kind {
	case imgutil.KindJPEG:
		err = saveAtomic(path, srcInfo.Mode(), func(w io.Writer) error {
			return imaging.Encode(w, resized, imaging.JPEG, imaging.JPEGQuality(opts.Quality))
		})
	case imgutil.KindPNG:
		err = saveAtomic(path, srcInfo.Mode(), func(w io.Writer) error {
			enc := &png.Encoder{CompressionLevel: png.BestCompression}
			return enc.Encode(w, resized)
		})
	default:
		res.SavedPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".jpg"
		flat := flattenToRGB(resized)
		err = saveAtomic(res.SavedPath, srcInfo.Mode(), func(w io.Writer) error {
			return imaging.Encode(w, flat, imaging.JPEG, imaging.JPEGQuality(opts.Quality))
		})
	}
	if err != nil {
		return failed(res, err)
	}

	if outInfo, statErr := os.Stat(res.SavedPath); statErr == nil {
		res.BytesSaved = srcInfo.Size() - outInfo.Size()
	}

	res.Outcome = OutcomeCompressed
	return res
}

func failed(res Result, err error) Result {
	res.Outcome = OutcomeFailed
	res.Err = err
	return res
}

// targetDims scales the larger side down to maxDim and the other side
// proportionally, truncating toward zero. A square image takes the
// height branch.
func targetDims(width, height, maxDim int) (int, int) {
	if width > height {
		return maxDim, height * maxDim / width
	}
	return width * maxDim / height, maxDim
}

// flattenToRGB composites onto an opaque white canvas; JPEG carries no
// alpha channel.
func flattenToRGB(src *image.NRGBA) *image.NRGBA {
	canvas := imaging.New(src.Bounds().Dx(), src.Bounds().Dy(), color.White)
	return imaging.Overlay(canvas, src, image.Pt(0, 0), 1.0)
}

// saveAtomic encodes into a temp file next to destPath and renames it
// over the destination, so a failed encode never clobbers the original.
func saveAtomic(destPath string, mode os.FileMode, encode func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), "squish-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := encode(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return replaceFile(tmp.Name(), destPath)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
