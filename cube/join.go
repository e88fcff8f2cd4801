package cube

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aussrc/cubekit/fits"
)

type joinInput struct {
	path  string
	r     Range
	src   *source
	axes  []fits.Axis
	inner int64 // bytes per step along the join axis
}

// Join concatenates split cube files back into one cube along the axis
// whose CTYPE card equals axisName in the first file's header. Inputs
// are ordered by the numeric lower bound embedded in their filenames,
// never lexicographically, so split_9- sorts before split_10-.
//
// The output is pre-sized and each input's bytes are copied directly at
// computed offsets; no input data array is ever materialized. The
// output header is the first input's with the joined axis length summed
// and the CRPIX/CRVAL/CDELT cards of every axis rewritten in canonical
// floating-point text. An existing output path fails with os.ErrExist
// unless overwrite is set.
func Join(paths []string, outputPath, axisName string, overwrite bool) error {
	if len(paths) == 0 {
		return fmt.Errorf("cube: join: no input files: %w", ErrInvalidRange)
	}

	inputs := make([]*joinInput, 0, len(paths))
	for _, path := range paths {
		r, _, err := ParseSplitFileName(filepath.Base(path))
		if err != nil {
			return err
		}
		inputs = append(inputs, &joinInput{path: path, r: r})
	}

	sort.Slice(inputs, func(i, j int) bool { return inputs[i].r.Lower < inputs[j].r.Lower })

	for _, input := range inputs {
		src, err := openSource(input.path)
		if err != nil {
			return err
		}
		defer src.Close()

		axes, err := src.header.Axes()
		if err != nil {
			return err
		}

		input.src = src
		input.axes = axes
	}

	first := inputs[0]
	axis, err := first.src.header.AxisIndex(axisName)
	if err != nil {
		return err
	}

	bitpix, err := first.src.header.Int("BITPIX")
	if err != nil {
		return err
	}

	pixel, err := fits.PixelSize(bitpix)
	if err != nil {
		return err
	}

	// All axes below the join axis form the contiguous block copied per
	// join-axis step; all axes above it repeat that block.
	inner := int64(pixel)
	for _, a := range first.axes[:axis-1] {
		inner *= int64(a.Len)
	}

	outer := int64(1)
	for _, a := range first.axes[axis:] {
		outer *= int64(a.Len)
	}

	joined := 0
	for _, input := range inputs {
		if err := checkJoinShape(first, input, axis); err != nil {
			return err
		}

		input.inner = inner * int64(input.axes[axis-1].Len)
		joined += input.axes[axis-1].Len
	}

	header := first.src.header.Clone()
	header.SetInt(fits.Nth("NAXIS", axis), joined)
	normalizeAxisCards(header, len(first.axes))

	if _, err := os.Stat(outputPath); err == nil && !overwrite {
		return fmt.Errorf("cube: join: %s: %w", outputPath, os.ErrExist)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cube: join: %w", err)
		}
	}

	out, err := os.Create(outputPath + ".part")
	if err != nil {
		return fmt.Errorf("cube: join: %w", err)
	}

	written, err := header.WriteTo(out)
	if err != nil {
		out.Close()
		return err
	}

	buf := make([]byte, copyBufferSize)
	for o := int64(0); o < outer; o++ {
		for _, input := range inputs {
			offset := input.src.dataOffset + o*input.inner
			if err := input.src.copySection(out, offset, input.inner, buf); err != nil {
				out.Close()
				return err
			}
			written += input.inner
		}
	}

	if _, err := padBlock(out, written); err != nil {
		out.Close()
		return fmt.Errorf("cube: join: %w", err)
	}

	return commit(out, outputPath)
}

// checkJoinShape verifies that every axis other than the join axis has
// the same length as in the first input.
func checkJoinShape(first, input *joinInput, axis int) error {
	if len(input.axes) != len(first.axes) {
		return fmt.Errorf("cube: join: %s: %d axes, expected %d: %w",
			input.path, len(input.axes), len(first.axes), ErrShapeMismatch)
	}

	for i, a := range input.axes {
		if a.Index == axis {
			continue
		}
		if a.Len != first.axes[i].Len {
			return fmt.Errorf("cube: join: %s: NAXIS%d is %d, expected %d: %w",
				input.path, a.Index, a.Len, first.axes[i].Len, ErrShapeMismatch)
		}
	}
	return nil
}

// normalizeAxisCards rewrites the reference pixel card families of
// every axis as canonical floating-point text, the form the rest of
// the pipeline's header tooling expects.
func normalizeAxisCards(header *fits.Header, naxis int) {
	for k := 1; k <= naxis; k++ {
		for _, family := range []string{"CRPIX", "CRVAL", "CDELT"} {
			name := fits.Nth(family, k)
			if v, err := header.Float(name); err == nil {
				header.SetFloat(name, v)
			}
		}
	}
}
