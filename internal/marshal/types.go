package marshal

import (
	"encoding/binary"
	"encoding/hex"
	"github.com/google/uuid"
	"math"
	"strconv"
	"unicode/utf8"
)

// AbstractType is a store value type. It renders stored bytes into their string form and
// parses that form back into bytes.
type AbstractType interface {
	// Name is the type expression that produces this type.
	Name() string
	// String renders a stored value.
	String(b []byte) (string, error)
	// FromString encodes the string form of a value.
	FromString(s string) ([]byte, error)
}

var (
	BytesType    AbstractType = bytesType{}
	AsciiType    AbstractType = asciiType{}
	UTF8Type     AbstractType = utf8Type{}
	LongType     AbstractType = longType{}
	Int32Type    AbstractType = int32Type{}
	BooleanType  AbstractType = booleanType{}
	DoubleType   AbstractType = doubleType{}
	UUIDType     AbstractType = uuidType{}
	TimeUUIDType AbstractType = timeUUIDType{}
)

// simpleTypes maps short type names to their singleton instance.
var simpleTypes = map[string]AbstractType{
	"BytesType":    BytesType,
	"AsciiType":    AsciiType,
	"UTF8Type":     UTF8Type,
	"LongType":     LongType,
	"Int32Type":    Int32Type,
	"BooleanType":  BooleanType,
	"DoubleType":   DoubleType,
	"UUIDType":     UUIDType,
	"TimeUUIDType": TimeUUIDType,
}

type bytesType struct{}

func (bytesType) Name() string { return "BytesType" }

func (bytesType) String(b []byte) (string, error) {
	return hex.EncodeToString(b), nil
}

func (bytesType) FromString(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, newError(ErrInvalidValue, "cannot parse %q as hex: %v", s, err)
	}
	return b, nil
}

type asciiType struct{}

func (asciiType) Name() string { return "AsciiType" }

func (asciiType) String(b []byte) (string, error) {
	for i, c := range b {
		if c > 127 {
			return "", newError(ErrInvalidValue, "invalid ascii byte 0x%02x at offset %d", c, i)
		}
	}
	return string(b), nil
}

func (t asciiType) FromString(s string) ([]byte, error) {
	b := []byte(s)
	if _, err := t.String(b); err != nil {
		return nil, err
	}
	return b, nil
}

type utf8Type struct{}

func (utf8Type) Name() string { return "UTF8Type" }

func (utf8Type) String(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", newError(ErrInvalidValue, "invalid UTF-8 bytes")
	}
	return string(b), nil
}

func (utf8Type) FromString(s string) ([]byte, error) {
	return []byte(s), nil
}

type longType struct{}

func (longType) Name() string { return "LongType" }

func (longType) String(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	if len(b) != 8 {
		return "", newError(ErrInvalidValue, "expected 8 or 0 byte long, got %d", len(b))
	}
	return strconv.FormatInt(int64(binary.BigEndian.Uint64(b)), 10), nil
}

func (longType) FromString(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, newError(ErrInvalidValue, "cannot parse %q as long", s)
	}
	return binary.BigEndian.AppendUint64(nil, uint64(n)), nil
}

type int32Type struct{}

func (int32Type) Name() string { return "Int32Type" }

func (int32Type) String(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	if len(b) != 4 {
		return "", newError(ErrInvalidValue, "expected 4 or 0 byte int, got %d", len(b))
	}
	return strconv.FormatInt(int64(int32(binary.BigEndian.Uint32(b))), 10), nil
}

func (int32Type) FromString(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil, newError(ErrInvalidValue, "cannot parse %q as int", s)
	}
	return binary.BigEndian.AppendUint32(nil, uint32(int32(n))), nil
}

type booleanType struct{}

func (booleanType) Name() string { return "BooleanType" }

func (booleanType) String(b []byte) (string, error) {
	switch len(b) {
	case 0:
		return "", nil
	case 1:
		return strconv.FormatBool(b[0] != 0), nil
	}
	return "", newError(ErrInvalidValue, "expected 1 or 0 byte boolean, got %d", len(b))
}

func (booleanType) FromString(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, newError(ErrInvalidValue, "cannot parse %q as boolean", s)
	}
	if v {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

type doubleType struct{}

func (doubleType) Name() string { return "DoubleType" }

func (doubleType) String(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	if len(b) != 8 {
		return "", newError(ErrInvalidValue, "expected 8 or 0 byte double, got %d", len(b))
	}
	f := math.Float64frombits(binary.BigEndian.Uint64(b))
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func (doubleType) FromString(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, newError(ErrInvalidValue, "cannot parse %q as double", s)
	}
	return binary.BigEndian.AppendUint64(nil, math.Float64bits(f)), nil
}

type uuidType struct{}

func (uuidType) Name() string { return "UUIDType" }

func (uuidType) String(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	u, err := uuid.FromBytes(b)
	if err != nil {
		return "", newError(ErrInvalidValue, "expected 16 or 0 byte uuid, got %d", len(b))
	}
	return u.String(), nil
}

func (uuidType) FromString(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, newError(ErrInvalidValue, "cannot parse %q as uuid", s)
	}
	return u[:], nil
}

// timeUUIDType only accepts version 1 (time based) UUIDs.
type timeUUIDType struct{}

func (timeUUIDType) Name() string { return "TimeUUIDType" }

func (timeUUIDType) String(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	u, err := uuid.FromBytes(b)
	if err != nil {
		return "", newError(ErrInvalidValue, "expected 16 or 0 byte uuid, got %d", len(b))
	}
	if u.Version() != 1 {
		return "", newError(ErrInvalidValue, "uuid %s is version %d, not a time uuid", u,
			u.Version())
	}
	return u.String(), nil
}

func (t timeUUIDType) FromString(s string) ([]byte, error) {
	b, err := uuidType{}.FromString(s)
	if err != nil {
		return nil, err
	}
	if _, err = t.String(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReversedType flips the sort order of its base type. Values render exactly like the base.
type ReversedType struct {
	Base AbstractType
}

func (r *ReversedType) Name() string {
	return "ReversedType(" + r.Base.Name() + ")"
}

func (r *ReversedType) String(b []byte) (string, error) {
	return r.Base.String(b)
}

func (r *ReversedType) FromString(s string) ([]byte, error) {
	return r.Base.FromString(s)
}
