package model

import "encoding/json"

// Field identifies one of the six records stored in id.dat.
type Field int

const (
	// FieldManufacturingID is the MID record. Its meaning is not documented.
	FieldManufacturingID Field = iota
	// FieldDigest is the DIG record. Its meaning is not documented.
	FieldDigest
	// FieldPSID is the DID record, the console PSID.
	FieldPSID
	// FieldAccountToken is the AID record, the PSN account id stored with
	// its byte pairs reversed.
	FieldAccountToken
	// FieldNickname is the OID record, the PSN online id.
	FieldNickname
	// FieldFirmwareTag is the SVR record, the firmware the file was written by.
	FieldFirmwareTag

	fieldCount
)

// Field capacities in bytes, matching the fixed buffers of the id.dat layout.
const (
	// DefaultFieldCapacity applies to every field except the nickname.
	DefaultFieldCapacity = 50
	// NicknameCapacity is the capacity of the OID field.
	NicknameCapacity = 255
)

// AllFields returns the six fields in id.dat key order.
func AllFields() []Field {
	return []Field{
		FieldManufacturingID,
		FieldDigest,
		FieldPSID,
		FieldAccountToken,
		FieldNickname,
		FieldFirmwareTag,
	}
}

// String returns the semantic name of the field.
func (f Field) String() string {
	switch f {
	case FieldManufacturingID:
		return "manufacturing_id"
	case FieldDigest:
		return "digest"
	case FieldPSID:
		return "device_psid"
	case FieldAccountToken:
		return "account_token"
	case FieldNickname:
		return "account_nickname"
	case FieldFirmwareTag:
		return "firmware_tag"
	default:
		return "unknown"
	}
}

// Key returns the three letter tag used in id.dat ("MID", "DIG", ...).
func (f Field) Key() string {
	switch f {
	case FieldManufacturingID:
		return "MID"
	case FieldDigest:
		return "DIG"
	case FieldPSID:
		return "DID"
	case FieldAccountToken:
		return "AID"
	case FieldNickname:
		return "OID"
	case FieldFirmwareTag:
		return "SVR"
	default:
		return ""
	}
}

// Capacity returns the maximum number of bytes stored for the field.
func (f Field) Capacity() int {
	if f == FieldNickname {
		return NicknameCapacity
	}
	return DefaultFieldCapacity
}

// IsValid reports whether f is one of the six known fields.
func (f Field) IsValid() bool {
	return f >= FieldManufacturingID && f < fieldCount
}

// IdentityRecord holds the id.dat fields of one device.
// The zero value is an empty record ready for use.
type IdentityRecord struct {
	fields [fieldCount]BoundedString
}

// Set overwrites field f with v, truncated to the field capacity.
// It reports whether the value had to be truncated. Unknown fields are ignored.
func (r *IdentityRecord) Set(f Field, v string) bool {
	if !f.IsValid() {
		return false
	}
	r.fields[f] = NewBoundedString(f.Capacity(), v)
	return r.fields[f].Truncated()
}

// Get returns the value of field f, or "" when it was never set.
func (r IdentityRecord) Get(f Field) string {
	if !f.IsValid() {
		return ""
	}
	return r.fields[f].String()
}

// IsSet reports whether field f holds a non-empty value.
func (r IdentityRecord) IsSet(f Field) bool {
	return f.IsValid() && !r.fields[f].IsEmpty()
}

// IsEmpty reports whether no field has been set.
func (r IdentityRecord) IsEmpty() bool {
	for _, f := range AllFields() {
		if r.IsSet(f) {
			return false
		}
	}
	return true
}

// ManufacturingID returns the MID value.
func (r IdentityRecord) ManufacturingID() string { return r.Get(FieldManufacturingID) }

// Digest returns the DIG value.
func (r IdentityRecord) Digest() string { return r.Get(FieldDigest) }

// PSID returns the DID value.
func (r IdentityRecord) PSID() string { return r.Get(FieldPSID) }

// AccountToken returns the AID value as stored, still pair-reversed.
func (r IdentityRecord) AccountToken() string { return r.Get(FieldAccountToken) }

// Nickname returns the OID value.
func (r IdentityRecord) Nickname() string { return r.Get(FieldNickname) }

// FirmwareTag returns the SVR value.
func (r IdentityRecord) FirmwareTag() string { return r.Get(FieldFirmwareTag) }

// MarshalJSON encodes the record as an object keyed by semantic field name.
// Fields that were never set are omitted.
func (r IdentityRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, fieldCount)
	for _, f := range AllFields() {
		if r.IsSet(f) {
			out[f.String()] = r.Get(f)
		}
	}
	return json.Marshal(out)
}
