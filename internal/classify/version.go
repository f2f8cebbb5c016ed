package classify

import (
	"strings"

	"golang.org/x/text/width"
)

// HENkakuMarker is written into the kernel version string by the HENkaku
// exploit. The system font has no glyphs for it.
const HENkakuMarker = "変革"

// HENkakuName replaces HENkakuMarker in normalized version strings.
const HENkakuName = "HENkaku"

// NormalizeVersion rewrites a raw kernel version string into printable
// form. When the HENkaku marker is present, its first occurrence becomes
// "HENkaku" and full-width ASCII is folded to narrow forms, so
// "3.60 変革-03" becomes "3.60 HENkaku-03". Strings without the marker are
// returned unchanged.
func NormalizeVersion(raw string) string {
	if !strings.Contains(raw, HENkakuMarker) {
		return raw
	}
	replaced := strings.Replace(raw, HENkakuMarker, HENkakuName, 1)
	return width.Narrow.String(replaced)
}

// IsHENkaku reports whether raw carries the HENkaku marker.
func IsHENkaku(raw string) bool {
	return strings.Contains(raw, HENkakuMarker)
}
