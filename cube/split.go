package cube

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aussrc/cubekit/fits"
)

// Split streams the channel range r of the named axis out of the input
// cube into a standalone file under outputDir, named by the split
// filename convention. The output carries the input's header with the
// sliced axis length rewritten, and both of its sections are padded to
// the FITS block size. The sliced axis must be the outermost
// non-degenerate axis, which is how survey cubes are laid out.
//
// Split returns the path of the written file.
func Split(inputPath, outputDir string, r Range, axisName string) (string, error) {
	src, err := openSource(inputPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	axis, err := src.header.AxisIndex(axisName)
	if err != nil {
		return "", err
	}

	total, err := src.header.AxisLen(axis)
	if err != nil {
		return "", err
	}

	if r.Lower < 0 || r.Lower > r.Upper || r.Upper >= total {
		return "", fmt.Errorf("cube: split: range %s of %d channels: %w", r, total, ErrInvalidRange)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("cube: split: %w", err)
	}

	header := src.header.Clone()
	header.SetInt(fits.Nth("NAXIS", axis), r.Size())

	outputPath := filepath.Join(outputDir, SplitFileName(r, filepath.Base(inputPath)))

	out, err := os.Create(outputPath + ".part")
	if err != nil {
		return "", fmt.Errorf("cube: split: %w", err)
	}

	written, err := header.WriteTo(out)
	if err != nil {
		out.Close()
		return "", err
	}

	want := int64(r.Size()) * src.sliceSize
	buf := make([]byte, copyBufferSize)
	if err := src.copySection(out, src.dataOffset+int64(r.Lower)*src.sliceSize, want, buf); err != nil {
		out.Close()
		return "", err
	}
	written += want

	if _, err := padBlock(out, written); err != nil {
		out.Close()
		return "", fmt.Errorf("cube: split: %w", err)
	}

	if err := commit(out, outputPath); err != nil {
		return "", err
	}

	return outputPath, nil
}
