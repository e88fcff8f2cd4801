package cube

import (
	"fmt"
	"os"

	"github.com/aussrc/cubekit/fits"
)

// The non-spatial axis card families that travel with an axis when its
// position changes.
var axisCardFamilies = []string{"CTYPE", "CRVAL", "CDELT", "CRPIX", "CUNIT"}

// Normalize canonicalizes the order of a cube's two non-spatial axes to
// (FREQ, STOKES) on axes 3 and 4. A cube already in that order is left
// untouched and Normalize reports false. A (STOKES, FREQ) cube has its
// data transposed along those two axes and the axis card families
// swapped, and Normalize reports true. Any other axis combination is
// rejected: downstream mosaicking has no defined meaning for it.
func Normalize(path string) (bool, error) {
	src, err := openSource(path)
	if err != nil {
		return false, err
	}
	defer src.Close()

	naxis, err := src.header.Naxis()
	if err != nil {
		return false, err
	}

	if naxis < 4 {
		return false, fmt.Errorf("cube: normalize: %s: NAXIS is %d, need at least 4: %w", path, naxis, fits.ErrFormat)
	}

	ctype3, _ := src.header.Str("CTYPE3")
	ctype4, _ := src.header.Str("CTYPE4")
	kind3, kind4 := fits.KindOf(ctype3), fits.KindOf(ctype4)

	if kind3 == fits.AxisFreq && kind4 == fits.AxisStokes {
		return false, nil
	}

	if !(kind3 == fits.AxisStokes && kind4 == fits.AxisFreq) {
		return false, fmt.Errorf("cube: normalize: %s: axes 3/4 are %q/%q, expected FREQ/STOKES in either order: %w",
			path, ctype3, ctype4, fits.ErrFormat)
	}

	n3, err := src.header.AxisLen(3)
	if err != nil {
		return false, err
	}

	n4, err := src.header.AxisLen(4)
	if err != nil {
		return false, err
	}

	header := src.header.Clone()
	header.SetInt("NAXIS3", n4)
	header.SetInt("NAXIS4", n3)
	for _, family := range axisCardFamilies {
		swapCards(header, fits.Nth(family, 3), fits.Nth(family, 4))
	}

	dataSize, err := src.header.DataSize()
	if err != nil {
		return false, err
	}

	out, err := os.Create(path + ".part")
	if err != nil {
		return false, fmt.Errorf("cube: normalize: %w", err)
	}

	headerSize, err := header.WriteTo(out)
	if err != nil {
		out.Close()
		return false, err
	}

	// Pre-size through the padded end so the block padding is zeroed and
	// the transposed planes can be placed with WriteAt.
	total := headerSize + dataSize
	if total%fits.BlockSize != 0 {
		total += fits.BlockSize - total%fits.BlockSize
	}
	if err := out.Truncate(total); err != nil {
		out.Close()
		return false, fmt.Errorf("cube: normalize: %w", err)
	}

	// Any axes beyond the fourth repeat the transposed group.
	groups := int64(1)
	for k := 5; k <= naxis; k++ {
		n, err := src.header.AxisLen(k)
		if err != nil {
			out.Close()
			return false, err
		}
		groups *= int64(n)
	}

	plane := src.sliceSize
	group := int64(n3) * int64(n4) * plane
	buf := make([]byte, plane)

	for g := int64(0); g < groups; g++ {
		for c4 := 0; c4 < n4; c4++ {
			for c3 := 0; c3 < n3; c3++ {
				oldOffset := src.dataOffset + g*group + (int64(c4)*int64(n3)+int64(c3))*plane
				if n, err := src.f.ReadAt(buf, oldOffset); err != nil {
					out.Close()
					return false, &ShortReadError{Path: path, Want: plane, Got: int64(n)}
				}

				newOffset := headerSize + g*group + (int64(c3)*int64(n4)+int64(c4))*plane
				if _, err := out.WriteAt(buf, newOffset); err != nil {
					out.Close()
					return false, fmt.Errorf("cube: normalize: %w", err)
				}
			}
		}
	}

	if err := commit(out, path); err != nil {
		return false, err
	}
	return true, nil
}

func swapCards(header *fits.Header, a, b string) {
	cardA, okA := header.Get(a)
	cardB, okB := header.Get(b)

	switch {
	case okA && okB:
		header.SetCard(a, cardB)
		header.SetCard(b, cardA)
	case okA:
		header.Delete(a)
		header.SetCard(b, cardA)
	case okB:
		header.Delete(b)
		header.SetCard(a, cardB)
	}
}
