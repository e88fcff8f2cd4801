package cube

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrInvalidRange  = errors.New("invalid channel range")
	ErrShapeMismatch = errors.New("mismatched cube shape")
	ErrUnknownBand   = errors.New("unrecognized frequency band")
	ErrBadSplitName  = errors.New("malformed split filename")
)

// ShortReadError reports a read that returned fewer bytes than the
// header geometry promised, indicating a truncated or malformed cube.
type ShortReadError struct {
	Path string
	Want int64
	Got  int64
}

func (err *ShortReadError) Error() string {
	return fmt.Sprintf("cube: %s: expected %d bytes but read %d", err.Path, err.Want, err.Got)
}

func (err *ShortReadError) Unwrap() error {
	return io.ErrUnexpectedEOF
}
