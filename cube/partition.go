package cube

import "fmt"

// Range is an inclusive, 0-based window of channel indices along one
// axis of a cube.
type Range struct {
	Lower int
	Upper int
}

func (r Range) Size() int {
	return r.Upper - r.Lower + 1
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Lower, r.Upper)
}

// Plan partitions total channels into parts contiguous ranges covering
// [0, total-1] exactly, assigned in ascending order. The first
// total%parts ranges are one channel longer than the rest, so sizes
// never differ by more than 1.
//
// parts must be in [1, total]: allowing parts > total would yield
// inverted tail ranges.
func Plan(total, parts int) ([]Range, error) {
	if parts <= 0 {
		return nil, fmt.Errorf("cube: plan: parts must be > 0: %w", ErrInvalidRange)
	}

	if parts > total {
		return nil, fmt.Errorf("cube: plan: cannot split %d channels into %d parts: %w", total, parts, ErrInvalidRange)
	}

	size := total / parts
	remainder := total % parts

	ranges := make([]Range, 0, parts)
	lower := 0
	for i := 0; i < parts; i++ {
		upper := lower + size - 1
		if i < remainder {
			upper++
		}

		ranges = append(ranges, Range{lower, upper})
		lower = upper + 1
	}

	return ranges, nil
}
