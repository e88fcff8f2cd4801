package catalog_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussrc/cubekit/catalog"
	"github.com/aussrc/cubekit/fits"
)

func writeTestCube(t *testing.T, path string) {
	t.Helper()

	h := fits.NewHeader()
	h.SetLogical("SIMPLE", true)
	h.SetInt("BITPIX", -32)
	h.SetInt("NAXIS", 2)
	h.SetInt("NAXIS1", 2)
	h.SetInt("NAXIS2", 2)
	h.SetString("CTYPE1", "RA---SIN")
	h.SetString("CTYPE2", "DEC--SIN")

	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	if _, err := h.WriteTo(file); err != nil {
		t.Fatal(err)
	}

	data := make([]byte, fits.BlockSize)
	if _, err := file.Write(data); err != nil {
		t.Fatal(err)
	}
}

func openTestCatalog(t *testing.T, dir string) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.Open(filepath.Join(dir, "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cat.Close() })
	return cat
}

func TestRecordGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cat := openTestCatalog(t, dir)

	path := filepath.Join(dir, "cube.fits")
	writeTestCube(t, path)

	entry, err := catalog.Stamp(path, []byte{0xde, 0xad, 0xbe, 0xef}, 144)
	if err != nil {
		t.Fatal(err)
	}

	if err := cat.Record(entry); err != nil {
		t.Fatal(err)
	}

	got, ok, err := cat.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("recorded entry not found")
	}

	if got.Path != entry.Path || got.Size != entry.Size || got.Channels != 144 {
		t.Errorf("entry round trip produced %+v", got)
	}
	if !got.ModTime.Equal(entry.ModTime) {
		t.Errorf("expected mod time %v but got %v", entry.ModTime, got.ModTime)
	}
	if got.HeaderCrc != entry.HeaderCrc {
		t.Errorf("expected header crc %08x but got %08x", entry.HeaderCrc, got.HeaderCrc)
	}
	if !bytes.Equal(got.Digest, entry.Digest) {
		t.Errorf("expected digest %x but got %x", entry.Digest, got.Digest)
	}
}

func TestGetMissingEntry(t *testing.T) {
	cat := openTestCatalog(t, t.TempDir())

	if _, ok, err := cat.Get("nowhere.fits"); err != nil || ok {
		t.Errorf("expected no entry but got ok=%v err=%v", ok, err)
	}
}

func TestRecordReplacesEntry(t *testing.T) {
	dir := t.TempDir()
	cat := openTestCatalog(t, dir)

	path := filepath.Join(dir, "cube.fits")
	writeTestCube(t, path)

	entry, err := catalog.Stamp(path, nil, 144)
	if err != nil {
		t.Fatal(err)
	}
	if err := cat.Record(entry); err != nil {
		t.Fatal(err)
	}

	entry.Channels = 288
	if err := cat.Record(entry); err != nil {
		t.Fatal(err)
	}

	got, ok, err := cat.Get(path)
	if err != nil || !ok {
		t.Fatalf("expected replaced entry but got ok=%v err=%v", ok, err)
	}
	if got.Channels != 288 {
		t.Errorf("expected 288 channels but got %d", got.Channels)
	}
}

func TestForEachOrdersByPath(t *testing.T) {
	dir := t.TempDir()
	cat := openTestCatalog(t, dir)

	names := []string{"c.fits", "a.fits", "b.fits"}
	for _, name := range names {
		path := filepath.Join(dir, name)
		writeTestCube(t, path)

		entry, err := catalog.Stamp(path, nil, 144)
		if err != nil {
			t.Fatal(err)
		}
		if err := cat.Record(entry); err != nil {
			t.Fatal(err)
		}
	}

	var paths []string
	if err := cat.ForEach(func(e catalog.Entry) bool {
		paths = append(paths, filepath.Base(e.Path))
		return true
	}); err != nil {
		t.Fatal(err)
	}

	expected := []string{"a.fits", "b.fits", "c.fits"}
	for i, name := range expected {
		if i >= len(paths) || paths[i] != name {
			t.Fatalf("expected entries %v but got %v", expected, paths)
		}
	}
}

func TestCheckFreshEntry(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "cube.fits")
	writeTestCube(t, path)

	entry, err := catalog.Stamp(path, nil, 144)
	if err != nil {
		t.Fatal(err)
	}

	if err := entry.Check(); err != nil {
		t.Errorf("fresh entry failed verification: %v", err)
	}
}

func TestCheckDetectsTouchedFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "cube.fits")
	writeTestCube(t, path)

	entry, err := catalog.Stamp(path, nil, 144)
	if err != nil {
		t.Fatal(err)
	}

	touched := entry.ModTime.Add(time.Hour)
	if err := os.Chtimes(path, touched, touched); err != nil {
		t.Fatal(err)
	}

	if err := entry.Check(); !errors.Is(err, catalog.ErrStale) {
		t.Errorf("expected stale error but got %v", err)
	}
}

func TestCheckDetectsHeaderRewrite(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "cube.fits")
	writeTestCube(t, path)

	entry, err := catalog.Stamp(path, nil, 144)
	if err != nil {
		t.Fatal(err)
	}

	// Rewrite one header card in place, then restore the timestamp so
	// only the fingerprint can catch the change.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	raw = bytes.Replace(raw, []byte("RA---SIN"), []byte("RA---TAN"), 1)
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, entry.ModTime, entry.ModTime); err != nil {
		t.Fatal(err)
	}

	if err := entry.Check(); !errors.Is(err, catalog.ErrStale) {
		t.Errorf("expected stale error but got %v", err)
	}
}
