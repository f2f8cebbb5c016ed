package registry

import (
	"fmt"
	"sort"

	"github.com/nao1215/psvident/internal/model"
)

// Schema describes where the region number lives in system.dreg and how its
// raw value maps to a region code.
type Schema struct {
	// Version names the layout, e.g. "v1".
	Version string

	// Offset is the byte offset of the region number from the start of the blob.
	Offset int64

	// Width is the number of bytes read. Only single byte fields are in use.
	Width int

	// Table maps raw values to region codes. Values not in the table decode
	// to model.RegionUnknown.
	Table map[byte]model.RegionCode
}

// SchemaV1 is the layout observed on firmware 3.60 through 3.65.
var SchemaV1 = Schema{
	Version: "v1",
	Offset:  92,
	Width:   1,
	Table: map[byte]model.RegionCode{
		0:  model.RegionCode0,
		1:  model.RegionJapan,
		2:  model.RegionNorthAmerica,
		3:  model.RegionAustralia,
		4:  model.RegionUnitedKingdom,
		5:  model.RegionEurope,
		6:  model.RegionKorea,
		7:  model.RegionAsia,
		8:  model.RegionTaiwan,
		9:  model.RegionRussia,
		10: model.RegionMexico,
		11: model.RegionMsgOff,
		12: model.RegionCode12,
		13: model.RegionChina,
		14: model.RegionCode14,
		15: model.RegionCode15,
	},
}

// DefaultSchemaVersion is used when no schema is configured.
const DefaultSchemaVersion = "v1"

// schemas holds every known layout by version.
var schemas = map[string]Schema{
	SchemaV1.Version: SchemaV1,
}

// LookupSchema returns the schema registered under version.
func LookupSchema(version string) (Schema, error) {
	s, ok := schemas[version]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownSchema, version)
	}
	return s, nil
}

// SchemaVersions returns the registered versions in sorted order.
func SchemaVersions() []string {
	versions := make([]string, 0, len(schemas))
	for v := range schemas {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// Decode maps a raw region byte through the schema table.
func (s Schema) Decode(b byte) model.RegionCode {
	if code, ok := s.Table[b]; ok {
		return code
	}
	return model.RegionUnknown
}
