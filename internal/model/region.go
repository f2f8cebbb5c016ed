package model

import "strconv"

// RegionCode is the region_no value stored in the system registry.
// Known values are 0 through 15; RegionUnknown stands for anything else,
// including a registry blob that could not be read.
type RegionCode int

// Region codes. Values without a known meaning keep their number as label.
const (
	// RegionUnknown is used for out-of-range bytes and unreadable blobs.
	RegionUnknown RegionCode = -1

	RegionCode0         RegionCode = 0
	RegionJapan         RegionCode = 1 // PCH-x000
	RegionNorthAmerica  RegionCode = 2 // PCH-x001
	RegionAustralia     RegionCode = 3 // PCH-x002
	RegionUnitedKingdom RegionCode = 4 // PCH-x003
	RegionEurope        RegionCode = 5 // PCH-x004
	RegionKorea         RegionCode = 6
	RegionAsia          RegionCode = 7
	RegionTaiwan        RegionCode = 8
	RegionRussia        RegionCode = 9 // PCH-x008
	RegionMexico        RegionCode = 10
	RegionMsgOff        RegionCode = 11
	RegionCode12        RegionCode = 12
	RegionChina         RegionCode = 13
	RegionCode14        RegionCode = 14
	RegionCode15        RegionCode = 15
)

// regionLabels holds the display label of each known code.
var regionLabels = map[RegionCode]string{
	RegionCode0:         "0",
	RegionJapan:         "Japan",
	RegionNorthAmerica:  "North America",
	RegionAustralia:     "Australia",
	RegionUnitedKingdom: "United Kingdom",
	RegionEurope:        "Europe",
	RegionKorea:         "Korea",
	RegionAsia:          "Asia",
	RegionTaiwan:        "Taiwan",
	RegionRussia:        "Russia",
	RegionMexico:        "Mexico",
	RegionMsgOff:        "msg_off",
	RegionCode12:        "12",
	RegionChina:         "China",
	RegionCode14:        "14",
	RegionCode15:        "15",
}

// IsKnown reports whether r is one of the sixteen known codes.
func (r RegionCode) IsKnown() bool {
	_, ok := regionLabels[r]
	return ok
}

// String returns the region label, or "Unknown" for unknown codes.
func (r RegionCode) String() string {
	if label, ok := regionLabels[r]; ok {
		return label
	}
	return "Unknown"
}

// Code returns the numeric region_no as a string, or "-" when unknown.
func (r RegionCode) Code() string {
	if !r.IsKnown() {
		return "-"
	}
	return strconv.Itoa(int(r))
}

// MarshalText encodes the region as its label.
func (r RegionCode) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
