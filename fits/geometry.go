package fits

import (
	"fmt"
	"strings"
)

// AxisKind classifies a CTYPE card value. Axis semantics are resolved
// once per header parse; callers dispatch on the kind instead of
// re-matching CTYPE strings.
type AxisKind int

const (
	AxisUnknown AxisKind = iota
	AxisRA
	AxisDec
	AxisFreq
	AxisStokes
)

func (k AxisKind) String() string {
	switch k {
	case AxisRA:
		return "RA"
	case AxisDec:
		return "DEC"
	case AxisFreq:
		return "FREQ"
	case AxisStokes:
		return "STOKES"
	default:
		return "UNKNOWN"
	}
}

// KindOf classifies a CTYPE value. Celestial axes carry projection
// suffixes ("RA---SIN", "DEC--SIN") so only the leading word counts.
func KindOf(ctype string) AxisKind {
	name, _, _ := strings.Cut(strings.TrimRight(ctype, " "), "-")
	switch name {
	case "RA":
		return AxisRA
	case "DEC":
		return AxisDec
	case "FREQ":
		return AxisFreq
	case "STOKES":
		return AxisStokes
	default:
		return AxisUnknown
	}
}

// Axis is one resolved entry of a header's NAXIS/CTYPE card family.
type Axis struct {
	Index int // 1-based, as in NAXISk/CTYPEk
	Len   int
	CType string
	Kind  AxisKind
}

// PixelSize returns the per-pixel byte width for a BITPIX value.
func PixelSize(bitpix int) (int, error) {
	switch bitpix {
	case 8:
		return 1, nil
	case 16:
		return 2, nil
	case 32, -32:
		return 4, nil
	case -64:
		return 8, nil
	default:
		return 0, fmt.Errorf("fits: unknown BITPIX %d: %w", bitpix, ErrFormat)
	}
}

// Naxis returns the axis count, verifying that every NAXISk card up to
// it is present.
func (h *Header) Naxis() (int, error) {
	n, err := h.Int("NAXIS")
	if err != nil {
		return 0, err
	}

	for k := 1; k <= n; k++ {
		if !h.Has(Nth("NAXIS", k)) {
			return 0, &CardError{ErrFormat, Nth("NAXIS", k)}
		}
	}
	return n, nil
}

// AxisLen returns the length of the 1-based axis k.
func (h *Header) AxisLen(k int) (int, error) {
	return h.Int(Nth("NAXIS", k))
}

// Axes resolves the full NAXIS/CTYPE card family. Axes without a CTYPE
// card come back with an empty CType and AxisUnknown.
func (h *Header) Axes() ([]Axis, error) {
	n, err := h.Naxis()
	if err != nil {
		return nil, err
	}

	axes := make([]Axis, n)
	for k := 1; k <= n; k++ {
		length, err := h.AxisLen(k)
		if err != nil {
			return nil, err
		}

		ctype, _ := h.Str(Nth("CTYPE", k))
		axes[k-1] = Axis{
			Index: k,
			Len:   length,
			CType: ctype,
			Kind:  KindOf(ctype),
		}
	}
	return axes, nil
}

// AxisIndex returns the 1-based index of the axis whose CTYPE card
// equals name exactly.
func (h *Header) AxisIndex(name string) (int, error) {
	n, err := h.Naxis()
	if err != nil {
		return 0, err
	}

	for k := 1; k <= n; k++ {
		ctype, err := h.Str(Nth("CTYPE", k))
		if err == nil && ctype == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("fits: CTYPE %s: %w", name, ErrNoSuchAxis)
}

// SliceSize returns the byte size of one spatial plane: the first two
// axes are the fixed sky plane and a later axis is iterated over it
// slice by slice.
func (h *Header) SliceSize() (int64, error) {
	bitpix, err := h.Int("BITPIX")
	if err != nil {
		return 0, err
	}

	pixel, err := PixelSize(bitpix)
	if err != nil {
		return 0, err
	}

	n1, err := h.AxisLen(1)
	if err != nil {
		return 0, err
	}

	n2, err := h.AxisLen(2)
	if err != nil {
		return 0, err
	}

	return int64(n1) * int64(n2) * int64(pixel), nil
}

// DataSize returns the unpadded byte size of the data section implied
// by the header.
func (h *Header) DataSize() (int64, error) {
	axes, err := h.Axes()
	if err != nil {
		return 0, err
	}

	bitpix, err := h.Int("BITPIX")
	if err != nil {
		return 0, err
	}

	pixel, err := PixelSize(bitpix)
	if err != nil {
		return 0, err
	}

	size := int64(pixel)
	for _, axis := range axes {
		size *= int64(axis.Len)
	}
	return size, nil
}

// Nth concatenates a card name prefix with a 1-based axis number, e.g.
// Nth("CRVAL", 3) == "CRVAL3".
func Nth(prefix string, k int) string {
	return fmt.Sprintf("%s%d", prefix, k)
}
