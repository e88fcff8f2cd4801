package cube

import (
	"crypto/sha256"
	"fmt"
)

// Digest computes the sha256 digest of the raw pixel bytes in channels
// [lower, upper] of the named axis. The digest is a pure function of
// the selected byte range: two exports of the same channel window are
// byte-identical exactly when their digests match, without diffing
// whole files.
func Digest(path string, lower, upper int, axisName string) ([]byte, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	axis, err := src.header.AxisIndex(axisName)
	if err != nil {
		return nil, err
	}

	total, err := src.header.AxisLen(axis)
	if err != nil {
		return nil, err
	}

	if lower < 0 || lower > upper || upper >= total {
		return nil, fmt.Errorf("cube: digest: range %d-%d of %d channels: %w", lower, upper, total, ErrInvalidRange)
	}

	hash := sha256.New()
	buf := make([]byte, copyBufferSize)

	offset := src.dataOffset + int64(lower)*src.sliceSize
	for channel := lower; channel <= upper; channel++ {
		if err := src.copySection(hash, offset, src.sliceSize, buf); err != nil {
			return nil, err
		}
		offset += src.sliceSize
	}

	return hash.Sum(nil), nil
}
