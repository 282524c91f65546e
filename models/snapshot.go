package models

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrInvalidSnapshot = errors.New("invalid record snapshot")
	ErrFieldNotFound   = errors.New("field not found in snapshot")
)

// Field is a single column of a captured row.
type Field struct {
	Name  string
	Value any
}

// Snapshot is a complete, column-ordered capture of a table row.
//
// It is encoded as a JSON object whose keys keep the column order of the
// source row, so it can be decoded and re-inserted without knowing the
// table schema. Values JSON cannot carry exactly are written as one-key
// tagged objects:
//
//	{"$b64": "..."}     []byte, base64
//	{"$b64str": "..."}  string that is not valid UTF-8, base64
//	{"$time": "..."}    time.Time, RFC 3339 with nanoseconds and offset
//
// Floats always carry a fraction or an exponent, so 2.0 decodes as a float
// and not as an integer.
type Snapshot []Field

// NewSnapshot pairs column names with scanned values. Values keep the Go type
// the driver produced, so a re-insert binds them the same way.
func NewSnapshot(columns []string, values []any) (Snapshot, error) {
	if len(columns) != len(values) {
		return nil, fmt.Errorf("%w: %d columns, %d values", ErrInvalidSnapshot, len(columns), len(values))
	}

	snapshot := make(Snapshot, 0, len(columns))
	for i, column := range columns {
		snapshot = append(snapshot, Field{Name: column, Value: normalizeValue(values[i])})
	}
	return snapshot, nil
}

// Columns returns the field names in capture order.
func (s Snapshot) Columns() []string {
	columns := make([]string, 0, len(s))
	for _, f := range s {
		columns = append(columns, f.Name)
	}
	return columns
}

// Values returns the field values in capture order.
func (s Snapshot) Values() []any {
	values := make([]any, 0, len(s))
	for _, f := range s {
		values = append(values, f.Value)
	}
	return values
}

// Get returns the value of the named field (case-insensitive).
func (s Snapshot) Get(name string) (any, error) {
	for _, f := range s {
		if strings.EqualFold(f.Name, name) {
			return f.Value, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, name)
}

// Int64 returns the named field as an integer.
func (s Snapshot) Int64(name string) (int64, error) {
	value, err := s.Get(name)
	if err != nil {
		return 0, err
	}

	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	default:
		return 0, fmt.Errorf("%w: field %s is %T, not an integer", ErrInvalidSnapshot, name, value)
	}
}

// MarshalJSON encodes the snapshot as an ordered JSON object.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := marshalValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %w", ErrInvalidSnapshot, f.Name, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an ordered JSON object. Integral numbers become
// int64, other numbers float64, tagged objects their original type.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected object", ErrInvalidSnapshot)
	}

	snapshot := make(Snapshot, 0, 16)
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: expected field name", ErrInvalidSnapshot)
		}

		var raw any
		if err = dec.Decode(&raw); err != nil {
			return fmt.Errorf("%w: field %s: %w", ErrInvalidSnapshot, name, err)
		}
		value, err := fromJSONValue(raw)
		if err != nil {
			return fmt.Errorf("%w: field %s: %w", ErrInvalidSnapshot, name, err)
		}
		snapshot = append(snapshot, Field{Name: name, Value: value})
	}

	if _, err = dec.Token(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	*s = snapshot
	return nil
}

const (
	tagBytes  = "$b64"
	tagString = "$b64str"
	tagTime   = "$time"
)

var errUnexpectedArray = errors.New("unexpected array value")

func normalizeValue(v any) any {
	switch value := v.(type) {
	case int:
		return int64(value)
	case int32:
		return int64(value)
	case float32:
		return float64(value)
	default:
		return value
	}
}

func marshalValue(v any) ([]byte, error) {
	switch value := v.(type) {
	case []byte:
		return json.Marshal(map[string]string{tagBytes: base64.StdEncoding.EncodeToString(value)})
	case string:
		if !utf8.ValidString(value) {
			return json.Marshal(map[string]string{tagString: base64.StdEncoding.EncodeToString([]byte(value))})
		}
	case time.Time:
		return json.Marshal(map[string]string{tagTime: value.Format(time.RFC3339Nano)})
	case float64:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if !bytes.ContainsAny(data, ".eE") {
			data = append(data, '.', '0')
		}
		return data, nil
	}
	return json.Marshal(v)
}

func fromJSONValue(v any) (any, error) {
	switch value := v.(type) {
	case json.Number:
		if i, err := value.Int64(); err == nil {
			return i, nil
		}
		if f, err := value.Float64(); err == nil {
			return f, nil
		}
		return value.String(), nil
	case map[string]any:
		return fromTaggedValue(value)
	case []any:
		return nil, errUnexpectedArray
	default:
		return v, nil
	}
}

func fromTaggedValue(m map[string]any) (any, error) {
	if len(m) != 1 {
		return nil, fmt.Errorf("unexpected object value with %d keys", len(m))
	}
	for tag, raw := range m {
		text, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("tag %s: expected string, got %T", tag, raw)
		}

		switch tag {
		case tagBytes:
			return base64.StdEncoding.DecodeString(text)
		case tagString:
			data, err := base64.StdEncoding.DecodeString(text)
			if err != nil {
				return nil, err
			}
			return string(data), nil
		case tagTime:
			return time.Parse(time.RFC3339Nano, text)
		default:
			return nil, fmt.Errorf("unknown tag %q", tag)
		}
	}
	return nil, nil
}
