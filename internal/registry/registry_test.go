package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"

	"github.com/nao1215/psvident/internal/model"
)

// writeBlob writes a blob of size bytes with value at the v1 region offset.
func writeBlob(t *testing.T, size int, value byte) string {
	t.Helper()

	blob := make([]byte, size)
	if size > int(SchemaV1.Offset) {
		blob[SchemaV1.Offset] = value
	}
	path := filepath.Join(t.TempDir(), "system.dreg")
	if err := os.WriteFile(path, blob, 0600); err != nil {
		t.Fatalf("failed to write blob: %v", err)
	}
	return path
}

// TestReadRegionSampleBlob reads the captured sample blob in testdata.
func TestReadRegionSampleBlob(t *testing.T) {
	t.Parallel()

	region, err := ReadRegion(filepath.Join("testdata", "system.dreg"), SchemaV1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if region != model.RegionEurope {
		t.Errorf("expected Europe, got %v", region)
	}
}

// TestReadRegion tests region decoding from files.
func TestReadRegion(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		value    byte
		expected model.RegionCode
	}{
		{"zero", 0, model.RegionCode0},
		{"japan", 1, model.RegionJapan},
		{"north america", 2, model.RegionNorthAmerica},
		{"europe", 5, model.RegionEurope},
		{"msg_off", 11, model.RegionMsgOff},
		{"fifteen", 15, model.RegionCode15},
		{"sixteen is unknown", 16, model.RegionUnknown},
		{"ninety nine is unknown", 99, model.RegionUnknown},
		{"max byte is unknown", 255, model.RegionUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := writeBlob(t, 128, tc.value)
			region, err := ReadRegion(path, SchemaV1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if region != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, region)
			}
		})
	}
}

// TestReadRegionMissingBlob tests that a missing file degrades to Unknown.
func TestReadRegionMissingBlob(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent.dreg")
	region, err := ReadRegion(path, SchemaV1)
	if region != model.RegionUnknown {
		t.Errorf("expected RegionUnknown, got %v", region)
	}
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected underlying os.ErrNotExist, got %v", err)
	}
	var re *ResourceError
	if !errors.As(err, &re) || re.Path != path {
		t.Errorf("expected *ResourceError for %s, got %v", path, err)
	}
}

// TestReadRegionShortBlob tests blobs ending before the region offset.
func TestReadRegionShortBlob(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 10, 92} {
		path := writeBlob(t, size, 0)
		region, err := ReadRegion(path, SchemaV1)
		if !errors.Is(err, ErrShortBlob) {
			t.Errorf("size %d: expected ErrShortBlob, got %v", size, err)
		}
		if region != model.RegionUnknown {
			t.Errorf("size %d: expected RegionUnknown, got %v", size, region)
		}
	}

	// Exactly offset+1 bytes is enough.
	path := writeBlob(t, 93, 3)
	region, err := ReadRegion(path, SchemaV1)
	if err != nil || region != model.RegionAustralia {
		t.Errorf("expected Australia, got %v (%v)", region, err)
	}
}

// TestDecodeRegion tests in-memory decoding.
func TestDecodeRegion(t *testing.T) {
	t.Parallel()

	blob := make([]byte, 100)
	blob[92] = 13
	region, err := DecodeRegion(blob, SchemaV1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if region != model.RegionChina {
		t.Errorf("expected China, got %v", region)
	}

	if _, err := DecodeRegion(blob[:50], SchemaV1); !errors.Is(err, ErrShortBlob) {
		t.Errorf("expected ErrShortBlob, got %v", err)
	}
}

// TestLookupSchema tests schema registration.
func TestLookupSchema(t *testing.T) {
	t.Parallel()

	s, err := LookupSchema("v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Offset != 92 || s.Width != 1 {
		t.Errorf("unexpected v1 layout: offset=%d width=%d", s.Offset, s.Width)
	}
	if len(s.Table) != 16 {
		t.Errorf("expected 16 table entries, got %d", len(s.Table))
	}

	if _, err := LookupSchema("v9"); !errors.Is(err, ErrUnknownSchema) {
		t.Errorf("expected ErrUnknownSchema, got %v", err)
	}

	versions := SchemaVersions()
	if len(versions) == 0 || versions[0] != DefaultSchemaVersion {
		t.Errorf("unexpected versions: %v", versions)
	}
}

// TestButtonAssign tests button assignment labels.
func TestButtonAssign(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		value    int
		expected string
	}{
		{0, "O = Enter"},
		{1, "X = Enter"},
		{2, "Unknown layout!?"},
		{UnreadInt, "Unknown layout!?"},
	}
	for _, tc := range testCases {
		if got := ButtonAssign(tc.value); got != tc.expected {
			t.Errorf("ButtonAssign(%d) = %q, expected %q", tc.value, got, tc.expected)
		}
	}
}

// TestLanguage tests language decoding.
func TestLanguage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		value int
		label string
		tag   language.Tag
	}{
		{0, "Japanese", language.Japanese},
		{1, "English US", language.AmericanEnglish},
		{8, "Russian", language.Russian},
		{17, "Brazilian Portuguese", language.BrazilianPortuguese},
		{18, "English UK", language.BritishEnglish},
		{19, "Unknown layout!?", language.Und},
		{UnreadInt, "Unknown layout!?", language.Und},
	}

	for _, tc := range testCases {
		t.Run(tc.label, func(t *testing.T) {
			t.Parallel()

			got := Language(tc.value)
			if got.Label != tc.label {
				t.Errorf("expected label %q, got %q", tc.label, got.Label)
			}
			if got.Tag != tc.tag {
				t.Errorf("expected tag %v, got %v", tc.tag, got.Tag)
			}
			if got.Code != tc.value {
				t.Errorf("expected code %d, got %d", tc.value, got.Code)
			}
		})
	}
}
