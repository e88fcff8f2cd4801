package fits_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/aussrc/cubekit/fits"
)

func newTestHeader() *fits.Header {
	h := fits.NewHeader()
	h.SetLogical("SIMPLE", true)
	h.SetInt("BITPIX", -32)
	h.SetInt("NAXIS", 2)
	h.SetInt("NAXIS1", 100)
	h.SetInt("NAXIS2", 50)
	h.SetString("CTYPE1", "RA---SIN")
	h.SetString("CTYPE2", "DEC--SIN")
	h.SetFloat("CRVAL1", 187.5)
	h.SetFloat("CRVAL2", -45.0)
	return h
}

func TestParseHeaderRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	if _, err := newTestHeader().WriteTo(buf); err != nil {
		t.Fatal(err)
	}

	if buf.Len()%fits.BlockSize != 0 {
		t.Fatalf("header length %d is not a multiple of %d", buf.Len(), fits.BlockSize)
	}

	header, offset, err := fits.ParseHeader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	if offset != int64(buf.Len()) {
		t.Errorf("expected data offset %d but got %d", buf.Len(), offset)
	}

	bitpix, err := header.Int("BITPIX")
	if err != nil {
		t.Fatal(err)
	}
	if bitpix != -32 {
		t.Errorf("expected BITPIX -32 but got %d", bitpix)
	}

	ctype, err := header.Str("CTYPE1")
	if err != nil {
		t.Fatal(err)
	}
	if ctype != "RA---SIN" {
		t.Errorf("expected CTYPE1 RA---SIN but got %q", ctype)
	}

	crval, err := header.Float("CRVAL2")
	if err != nil {
		t.Fatal(err)
	}
	if crval != -45.0 {
		t.Errorf("expected CRVAL2 -45.0 but got %v", crval)
	}
}

func TestParseHeaderMissingEnd(t *testing.T) {
	block := strings.Repeat(" ", fits.BlockSize)
	if _, _, err := fits.ParseHeader(strings.NewReader(block)); !errors.Is(err, fits.ErrFormat) {
		t.Errorf("expected format error but got %v", err)
	}
}

func TestSliceSize(t *testing.T) {
	size, err := newTestHeader().SliceSize()
	if err != nil {
		t.Fatal(err)
	}

	if size != 100*50*4 {
		t.Errorf("expected slice size 20000 but got %d", size)
	}
}

func TestPixelSize(t *testing.T) {
	sizes := map[int]int{8: 1, 16: 2, 32: 4, -32: 4, -64: 8}
	for bitpix, expected := range sizes {
		actual, err := fits.PixelSize(bitpix)
		if err != nil {
			t.Fatal(err)
		}
		if actual != expected {
			t.Errorf("BITPIX %d: expected %d bytes but got %d", bitpix, expected, actual)
		}
	}

	if _, err := fits.PixelSize(24); !errors.Is(err, fits.ErrFormat) {
		t.Errorf("expected format error for BITPIX 24 but got %v", err)
	}
}

func TestAxisIndex(t *testing.T) {
	h := newTestHeader()

	axis, err := h.AxisIndex("DEC--SIN")
	if err != nil {
		t.Fatal(err)
	}
	if axis != 2 {
		t.Errorf("expected axis 2 but got %d", axis)
	}

	if _, err := h.AxisIndex("FREQ"); !errors.Is(err, fits.ErrNoSuchAxis) {
		t.Errorf("expected no such axis error but got %v", err)
	}
}

func TestKindOf(t *testing.T) {
	kinds := map[string]fits.AxisKind{
		"RA---SIN": fits.AxisRA,
		"DEC--SIN": fits.AxisDec,
		"FREQ":     fits.AxisFreq,
		"STOKES":   fits.AxisStokes,
		"VELO-LSR": fits.AxisUnknown,
	}
	for ctype, expected := range kinds {
		if actual := fits.KindOf(ctype); actual != expected {
			t.Errorf("%s: expected %v but got %v", ctype, expected, actual)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	h := newTestHeader()
	clone := h.Clone()
	clone.SetInt("NAXIS2", 25)

	n, err := h.AxisLen(2)
	if err != nil {
		t.Fatal(err)
	}
	if n != 50 {
		t.Errorf("clone modification leaked into original: NAXIS2 = %d", n)
	}
}

func TestHeaderChecksum(t *testing.T) {
	h := newTestHeader()

	a := fits.HeaderChecksum(h)
	if b := fits.HeaderChecksum(h.Clone()); a != b {
		t.Errorf("checksums of identical headers differ: %08x != %08x", a, b)
	}

	modified := h.Clone()
	modified.SetInt("NAXIS1", 101)
	if b := fits.HeaderChecksum(modified); a == b {
		t.Error("checksum did not change after card modification")
	}
}

func TestNaxisRequiresLengthCards(t *testing.T) {
	h := newTestHeader()
	h.Delete("NAXIS2")

	if _, err := h.Naxis(); !errors.Is(err, fits.ErrFormat) {
		t.Errorf("expected format error but got %v", err)
	}
}

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		1:       "1.",
		1.5:     "1.5",
		8e8:     "8E+08",
		-0.0025: "-0.0025",
	}
	for v, expected := range cases {
		if actual := fits.FormatFloat(v); actual != expected {
			t.Errorf("%v: expected %q but got %q", v, expected, actual)
		}
	}
}
