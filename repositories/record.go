package repositories

import (
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// record is the on-disk shape of every value: a protobuf Struct.
// Numbers are doubles on the wire, which is lossless for ids below 2^53.
type record map[string]*structpb.Value

func marshalRecord(fields map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return proto.Marshal(s)
}

func unmarshalRecord(data []byte) (record, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return s.GetFields(), nil
}

func (r record) str(key string) string {
	return r[key].GetStringValue()
}

func (r record) int64(key string) int64 {
	return int64(r[key].GetNumberValue())
}

func (r record) optionalInt64(key string) *int64 {
	v, ok := r[key]
	if !ok {
		return nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil
	}
	n := int64(v.GetNumberValue())
	return &n
}

func (r record) time(key string) (time.Time, error) {
	t, err := parseTime(r.str(key))
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: %w", key, err)
	}
	return t, nil
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// RenderRecord turns a stored value into indented JSON for inspection tools.
// Values that are not records (index entries) are returned as quoted text.
func RenderRecord(value []byte) string {
	var s structpb.Struct
	if err := proto.Unmarshal(value, &s); err != nil || len(s.GetFields()) == 0 {
		return fmt.Sprintf("%q", value)
	}
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(&s)
	if err != nil {
		return fmt.Sprintf("%q", value)
	}
	return string(out)
}

// nextID draws the next identifier from a badger sequence. Sequences start at
// zero, identifiers at one.
func nextID(seq *badger.Sequence) (int64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, fmt.Errorf("sequence: %w", err)
	}
	return int64(n) + 1, nil
}
