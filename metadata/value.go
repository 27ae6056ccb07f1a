package metadata

import (
	"strconv"
	"strings"

	"github.com/RubbaBoy/QilletniMetadata/errors"
)

// FieldType is the type code stored alongside a custom field value in the
// custom_fields.type column. The codes are part of the persisted format and
// must not change.
type FieldType int

const (
	FieldString  FieldType = 0
	FieldInteger FieldType = 1
	FieldDouble  FieldType = 2
	FieldBoolean FieldType = 3
)

func (t FieldType) String() string {
	switch t {
	case FieldString:
		return "string"
	case FieldInteger:
		return "integer"
	case FieldDouble:
		return "double"
	case FieldBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// ParseFieldType maps a type name to its code. Used by callers that select
// the type explicitly instead of deriving it from a Go value.
func ParseFieldType(name string) (FieldType, error) {
	switch strings.ToLower(name) {
	case "string":
		return FieldString, nil
	case "integer", "int":
		return FieldInteger, nil
	case "double", "float":
		return FieldDouble, nil
	case "boolean", "bool":
		return FieldBoolean, nil
	default:
		return 0, errors.Newf("unknown field type %q", name)
	}
}

// FieldValue is a typed custom field value in its serialized form, paired
// with the type code needed to reconstruct it.
type FieldValue struct {
	fieldType FieldType
	raw       string
}

// StringValue builds a string field value
func StringValue(v string) FieldValue {
	return FieldValue{fieldType: FieldString, raw: v}
}

// IntValue builds an integer field value
func IntValue(v int64) FieldValue {
	return FieldValue{fieldType: FieldInteger, raw: strconv.FormatInt(v, 10)}
}

// DoubleValue builds a double field value
func DoubleValue(v float64) FieldValue {
	return FieldValue{fieldType: FieldDouble, raw: strconv.FormatFloat(v, 'g', -1, 64)}
}

// BoolValue builds a boolean field value
func BoolValue(v bool) FieldValue {
	return FieldValue{fieldType: FieldBoolean, raw: strconv.FormatBool(v)}
}

// FieldValueOf derives the stored type from a Go value. Supported types are
// string, int, int64, float64, bool, and FieldValue itself (passed through
// unchanged).
func FieldValueOf(v interface{}) (FieldValue, error) {
	switch value := v.(type) {
	case FieldValue:
		return value, nil
	case string:
		return StringValue(value), nil
	case int:
		return IntValue(int64(value)), nil
	case int64:
		return IntValue(value), nil
	case float64:
		return DoubleValue(value), nil
	case bool:
		return BoolValue(value), nil
	default:
		return FieldValue{}, errors.NewUnsupportedFieldTypeError(v)
	}
}

// storedFieldValue reconstructs a FieldValue from a scanned row, rejecting
// type codes outside the persisted format.
func storedFieldValue(code int64, raw string) (FieldValue, error) {
	fieldType := FieldType(code)
	switch fieldType {
	case FieldString, FieldInteger, FieldDouble, FieldBoolean:
		return FieldValue{fieldType: fieldType, raw: raw}, nil
	default:
		return FieldValue{}, errors.Wrapf(errors.ErrUnknownFieldType, "%d", code)
	}
}

// Type returns the stored type code
func (v FieldValue) Type() FieldType { return v.fieldType }

// Raw returns the serialized text exactly as persisted
func (v FieldValue) Raw() string { return v.raw }

// Int returns the integer value. Fails when the stored type is not integer
// or the stored text does not parse.
func (v FieldValue) Int() (int64, error) {
	if v.fieldType != FieldInteger {
		return 0, errors.Newf("field is %s, not integer", v.fieldType)
	}
	parsed, err := strconv.ParseInt(v.raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse integer field %q", v.raw)
	}
	return parsed, nil
}

// Double returns the double value
func (v FieldValue) Double() (float64, error) {
	if v.fieldType != FieldDouble {
		return 0, errors.Newf("field is %s, not double", v.fieldType)
	}
	parsed, err := strconv.ParseFloat(v.raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse double field %q", v.raw)
	}
	return parsed, nil
}

// Bool returns the boolean value
func (v FieldValue) Bool() (bool, error) {
	if v.fieldType != FieldBoolean {
		return false, errors.Newf("field is %s, not boolean", v.fieldType)
	}
	parsed, err := strconv.ParseBool(v.raw)
	if err != nil {
		return false, errors.Wrapf(err, "failed to parse boolean field %q", v.raw)
	}
	return parsed, nil
}

// Value reconstructs the Go value from the stored type and text
func (v FieldValue) Value() (interface{}, error) {
	switch v.fieldType {
	case FieldString:
		return v.raw, nil
	case FieldInteger:
		return v.Int()
	case FieldDouble:
		return v.Double()
	case FieldBoolean:
		return v.Bool()
	default:
		return nil, errors.Wrapf(errors.ErrUnknownFieldType, "%d", int(v.fieldType))
	}
}

func (v FieldValue) String() string { return v.raw }
