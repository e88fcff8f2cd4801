package cube

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/aussrc/cubekit/fits"
)

// Observing bands are identified by the frequency axis's reference
// frequency; each band has a fixed expected channel count.
const (
	band1Frequency = 800e6
	band2Frequency = 1296e6
	bandTolerance  = 5e6

	band1Channels = 288
	band2Channels = 144
)

// Report is the outcome of checking or repairing one cube.
type Report struct {
	Path     string
	Present  int
	Expected int
	Repaired bool
}

func (r Report) Complete() bool {
	return r.Present == r.Expected
}

// ExpectedChannels returns the band channel count implied by the
// frequency axis's reference frequency.
func ExpectedChannels(header *fits.Header) (int, error) {
	axis, err := header.AxisIndex("FREQ")
	if err != nil {
		return 0, err
	}

	crval, err := header.Float(fits.Nth("CRVAL", axis))
	if err != nil {
		return 0, err
	}

	switch {
	case math.Abs(crval-band1Frequency) < bandTolerance:
		return band1Channels, nil
	case math.Abs(crval-band2Frequency) < bandTolerance:
		return band2Channels, nil
	default:
		return 0, fmt.Errorf("cube: reference frequency %s Hz: %w", fits.FormatFloat(crval), ErrUnknownBand)
	}
}

// Check reports whether the named cube carries its band's expected
// channel count, without touching the file.
func Check(path string) (Report, error) {
	header, _, err := fits.ParseHeaderFile(path)
	if err != nil {
		return Report{Path: path}, err
	}

	axis, err := header.AxisIndex("FREQ")
	if err != nil {
		return Report{Path: path}, err
	}

	present, err := header.AxisLen(axis)
	if err != nil {
		return Report{Path: path}, err
	}

	expected, err := ExpectedChannels(header)
	if err != nil {
		return Report{Path: path}, err
	}

	return Report{Path: path, Present: present, Expected: expected}, nil
}

// nanFill returns the big-endian byte pattern of a single NaN pixel.
// Integer pixel formats have no NaN and cannot be repaired.
func nanFill(bitpix int) ([]byte, error) {
	switch bitpix {
	case -32:
		return []byte{0x7f, 0xc0, 0x00, 0x00}, nil
	case -64:
		return []byte{0x7f, 0xf8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, nil
	default:
		return nil, fmt.Errorf("cube: repair: cannot NaN-fill BITPIX %d: %w", bitpix, fits.ErrFormat)
	}
}

// Repair pads a short cube with NaN-filled channels after its last
// existing channel on the frequency axis, up to the band's expected
// count. Existing data and all other axes are unchanged. The file is
// only rewritten when overwrite is set; otherwise the call is
// report-only.
func Repair(path string, overwrite bool) (Report, error) {
	src, err := openSource(path)
	if err != nil {
		return Report{Path: path}, err
	}
	defer src.Close()

	axis, err := src.header.AxisIndex("FREQ")
	if err != nil {
		return Report{Path: path}, err
	}

	present, err := src.header.AxisLen(axis)
	if err != nil {
		return Report{Path: path}, err
	}

	expected, err := ExpectedChannels(src.header)
	if err != nil {
		return Report{Path: path}, err
	}

	report := Report{Path: path, Present: present, Expected: expected}
	if present >= expected || !overwrite {
		return report, nil
	}

	bitpix, err := src.header.Int("BITPIX")
	if err != nil {
		return report, err
	}

	fill, err := nanFill(bitpix)
	if err != nil {
		return report, err
	}

	axes, err := src.header.Axes()
	if err != nil {
		return report, err
	}

	inner := int64(len(fill))
	for _, a := range axes[:axis-1] {
		inner *= int64(a.Len)
	}

	outer := int64(1)
	for _, a := range axes[axis:] {
		outer *= int64(a.Len)
	}

	header := src.header.Clone()
	header.SetInt(fits.Nth("NAXIS", axis), expected)
	header.AddHistory("Added missing channels filled with NaNs.")

	out, err := os.Create(path + ".part")
	if err != nil {
		return report, fmt.Errorf("cube: repair: %w", err)
	}

	written, err := header.WriteTo(out)
	if err != nil {
		out.Close()
		return report, err
	}

	buf := make([]byte, copyBufferSize)
	pad := nanBuffer(fill)

	for o := int64(0); o < outer; o++ {
		offset := src.dataOffset + o*int64(present)*inner
		if err := src.copySection(out, offset, int64(present)*inner, buf); err != nil {
			out.Close()
			return report, err
		}
		written += int64(present) * inner

		if err := writeFill(out, pad, int64(expected-present)*inner); err != nil {
			out.Close()
			return report, fmt.Errorf("cube: repair: %w", err)
		}
		written += int64(expected-present) * inner
	}

	if _, err := padBlock(out, written); err != nil {
		out.Close()
		return report, fmt.Errorf("cube: repair: %w", err)
	}

	if err := commit(out, path); err != nil {
		return report, err
	}

	report.Repaired = true
	return report, nil
}

// nanBuffer tiles the NaN pixel pattern into a copy buffer. The buffer
// length is a multiple of every pixel width, so fills never split a
// pixel across writes.
func nanBuffer(fill []byte) []byte {
	buf := make([]byte, copyBufferSize)
	for i := 0; i < len(buf); i += len(fill) {
		copy(buf[i:], fill)
	}
	return buf
}

func writeFill(w *os.File, pad []byte, n int64) error {
	for n > 0 {
		chunk := int64(len(pad))
		if chunk > n {
			chunk = n
		}
		if _, err := w.Write(pad[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// RepairTree walks root for *.fits files and checks, and optionally
// repairs, each one. A failing file does not abort the walk: its error
// is collected and the remaining files are still processed. The
// returned error joins every per-file failure.
func RepairTree(root string, overwrite bool) ([]Report, error) {
	var reports []Report
	var errs []error

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".fits") {
			return nil
		}

		report, err := Repair(path, overwrite)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			return nil
		}

		reports = append(reports, report)
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}

	return reports, errors.Join(errs...)
}
