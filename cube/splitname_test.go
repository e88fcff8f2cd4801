package cube_test

import (
	"errors"
	"testing"

	"github.com/aussrc/cubekit/cube"
)

func TestSplitFileName(t *testing.T) {
	name := cube.SplitFileName(cube.Range{0, 47}, "image.restored.i.SB1234.fits")
	if name != "split_0-47_image.restored.i.SB1234.fits" {
		t.Errorf("unexpected split filename %q", name)
	}
}

func TestParseSplitFileName(t *testing.T) {
	r, basename, err := cube.ParseSplitFileName("split_10-19_image.restored.i.SB1234.fits")
	if err != nil {
		t.Fatal(err)
	}

	if r != (cube.Range{10, 19}) {
		t.Errorf("expected range 10-19 but got %v", r)
	}

	if basename != "image.restored.i.SB1234.fits" {
		t.Errorf("expected original basename but got %q", basename)
	}
}

func TestParseSplitFileNameRoundTrip(t *testing.T) {
	original := cube.Range{96, 143}
	r, basename, err := cube.ParseSplitFileName(cube.SplitFileName(original, "cube.fits"))
	if err != nil {
		t.Fatal(err)
	}

	if r != original || basename != "cube.fits" {
		t.Errorf("round trip produced %v %q", r, basename)
	}
}

func TestParseSplitFileNameMalformed(t *testing.T) {
	names := []string{
		"image.fits",
		"split_a-b_image.fits",
		"split_1-2",
		"split_-1-2_image.fits",
		"Split_0-1_image.fits",
	}
	for _, name := range names {
		if _, _, err := cube.ParseSplitFileName(name); !errors.Is(err, cube.ErrBadSplitName) {
			t.Errorf("%q: expected bad split name error but got %v", name, err)
		}
	}
}
