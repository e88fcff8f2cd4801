// Package cube partitions, verifies, reassembles, and repairs FITS
// image cubes that are routinely larger than memory. Every operation
// streams fixed-size chunks computed from header byte geometry; none
// ever loads a whole cube.
package cube

import (
	"fmt"
	"io"
	"os"

	"github.com/aussrc/cubekit/fits"
)

const copyBufferSize = 1 << 20

// source is an opened cube with its parsed byte geometry. Each
// operation opens its own source; nothing is shared across calls, so
// concurrent operations on one file are safe with independent handles.
type source struct {
	f          *os.File
	header     *fits.Header
	dataOffset int64
	sliceSize  int64
}

func openSource(path string) (*source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cube: open: %w", err)
	}

	header, dataOffset, err := fits.ParseHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	sliceSize, err := header.SliceSize()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &source{
		f:          f,
		header:     header,
		dataOffset: dataOffset,
		sliceSize:  sliceSize,
	}, nil
}

func (s *source) Close() error {
	return s.f.Close()
}

// copySection streams want bytes from a section of the source into w
// through a bounded buffer. Anything short of want is a truncated or
// malformed cube.
func (s *source) copySection(w io.Writer, offset, want int64, buf []byte) error {
	section := io.NewSectionReader(s.f, offset, want)
	n, err := io.CopyBuffer(w, section, buf)
	if err != nil {
		return fmt.Errorf("cube: %s: %w", s.f.Name(), err)
	}
	if n < want {
		return &ShortReadError{Path: s.f.Name(), Want: want, Got: n}
	}
	return nil
}

// padBlock zero-fills w so that size becomes a multiple of the FITS
// block length. Data section padding is zero bytes, unlike the
// space-padded header section.
func padBlock(w io.Writer, size int64) (int64, error) {
	if size%fits.BlockSize == 0 {
		return 0, nil
	}

	pad := fits.BlockSize - size%fits.BlockSize
	n, err := w.Write(make([]byte, pad))
	return int64(n), err
}

// commit renames a fully written temporary file into place. Outputs
// only ever appear under their canonical name once complete, so a
// partial write is never mistaken for a finished cube.
func commit(f *os.File, path string) error {
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("cube: commit: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("cube: commit: %w", err)
	}

	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("cube: commit: %w", err)
	}
	return nil
}
