package registry

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nao1215/psvident/internal/model"
)

// ReadRegion reads the region number from the blob at path.
//
// It never panics on bad input: a missing file returns model.RegionUnknown
// with a *ResourceError wrapping ErrResourceUnavailable, and a blob that ends
// before the schema offset returns model.RegionUnknown with ErrShortBlob.
func ReadRegion(path string, schema Schema) (model.RegionCode, error) {
	b, err := ReadRegionByte(path, schema)
	if err != nil {
		return model.RegionUnknown, err
	}
	return schema.Decode(b), nil
}

// ReadRegionByte returns the raw region byte of the blob at path.
// The file is opened, read once at the schema offset and closed.
func ReadRegionByte(path string, schema Schema) (byte, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the dump directory the user selected
	if err != nil {
		return 0, &ResourceError{Path: path, Err: fmt.Errorf("%w: %w", ErrResourceUnavailable, err)}
	}
	defer func() { _ = f.Close() }()

	return readAt(f, schema)
}

// DecodeRegion extracts the region number from an in-memory blob.
func DecodeRegion(blob []byte, schema Schema) (model.RegionCode, error) {
	end := schema.Offset + int64(schema.width())
	if schema.Offset < 0 || int64(len(blob)) < end {
		return model.RegionUnknown, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBlob, end, len(blob))
	}
	return schema.Decode(blob[schema.Offset]), nil
}

// readAt reads the schema field from r.
func readAt(r io.ReaderAt, schema Schema) (byte, error) {
	buf := make([]byte, schema.width())
	n, err := r.ReadAt(buf, schema.Offset)
	if n < len(buf) {
		if err == nil || errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: no byte at offset %d", ErrShortBlob, schema.Offset)
		}
		return 0, fmt.Errorf("failed to read registry blob: %w", err)
	}
	return buf[0], nil
}

// width returns the field width, treating unset widths as one byte.
func (s Schema) width() int {
	if s.Width <= 0 {
		return 1
	}
	return s.Width
}
