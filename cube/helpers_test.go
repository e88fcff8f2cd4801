package cube_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/aussrc/cubekit/fits"
)

type testAxis struct {
	ctype string
	len   int
	crval float64
}

// writeTestCube writes a minimal but standard-conforming cube: header
// cards, big-endian data, both sections padded to the block size.
func writeTestCube(t *testing.T, path string, bitpix int, axes []testAxis, data []byte) {
	t.Helper()

	pixel, err := fits.PixelSize(bitpix)
	if err != nil {
		t.Fatal(err)
	}

	want := pixel
	for _, axis := range axes {
		want *= axis.len
	}
	if len(data) != want {
		t.Fatalf("test cube data is %d bytes, geometry needs %d", len(data), want)
	}

	h := fits.NewHeader()
	h.SetLogical("SIMPLE", true)
	h.SetInt("BITPIX", bitpix)
	h.SetInt("NAXIS", len(axes))
	for i, axis := range axes {
		k := i + 1
		h.SetInt(fits.Nth("NAXIS", k), axis.len)
		h.SetString(fits.Nth("CTYPE", k), axis.ctype)
		h.SetFloat(fits.Nth("CRVAL", k), axis.crval)
		h.SetFloat(fits.Nth("CDELT", k), 1)
		h.SetFloat(fits.Nth("CRPIX", k), 1)
		h.SetString(fits.Nth("CUNIT", k), "")
	}

	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	written, err := h.WriteTo(file)
	if err != nil {
		t.Fatal(err)
	}

	n, err := file.Write(data)
	if err != nil {
		t.Fatal(err)
	}
	written += int64(n)

	if written%fits.BlockSize != 0 {
		pad := make([]byte, fits.BlockSize-written%fits.BlockSize)
		if _, err := file.Write(pad); err != nil {
			t.Fatal(err)
		}
	}
}

// testPattern generates deterministic, position-dependent bytes so any
// reordering or truncation shows up in comparisons.
func testPattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*31 + 7)
	}
	return data
}

// dataSection reads back the unpadded data bytes of a cube.
func dataSection(t *testing.T, path string) []byte {
	t.Helper()

	header, offset, err := fits.ParseHeaderFile(path)
	if err != nil {
		t.Fatal(err)
	}

	size, err := header.DataSize()
	if err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if int64(len(raw)) < offset+size {
		t.Fatalf("%s: file is %d bytes, header implies at least %d", path, len(raw), offset+size)
	}
	return raw[offset : offset+size]
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()

	stat, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return stat.Size()
}

func assertSame(t *testing.T, expected, actual []byte, context string) {
	t.Helper()

	if !bytes.Equal(expected, actual) {
		t.Fatalf("%s: data differs (%d vs %d bytes)", context, len(expected), len(actual))
	}
}
