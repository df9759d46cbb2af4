package ledger

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ISOLayout matches JavaScript's Date.prototype.toISOString output.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t as an ISO-8601 UTC string; the zero time maps to nil (JSON null).
func FormatTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(ISOLayout)
	return &s
}

func FormatTimestampPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return FormatTimestamp(*t)
}

// NormalizeValue replaces every native timestamp inside v (time.Time, BSON DateTime,
// BSON Timestamp) with its ISO-8601 string, descending into documents and arrays. BSON
// documents come back as plain maps so they serialize as JSON objects.
func NormalizeValue(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		return stringOrNil(FormatTimestamp(x))
	case *time.Time:
		return stringOrNil(FormatTimestampPtr(x))
	case primitive.DateTime:
		return stringOrNil(FormatTimestamp(x.Time()))
	case primitive.Timestamp:
		if x.T == 0 {
			return nil
		}
		return stringOrNil(FormatTimestamp(time.Unix(int64(x.T), 0)))
	case primitive.D:
		out := make(map[string]interface{}, len(x))
		for _, e := range x {
			out[e.Key] = NormalizeValue(e.Value)
		}
		return out
	case primitive.M:
		return normalizeMap(x)
	case map[string]interface{}:
		return normalizeMap(x)
	case primitive.A:
		return normalizeSlice(x)
	case []interface{}:
		return normalizeSlice(x)
	}
	return v
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, val := range m {
		out[k] = NormalizeValue(val)
	}
	return out
}

func normalizeSlice(s []interface{}) []interface{} {
	out := make([]interface{}, len(s))
	for i, val := range s {
		out[i] = NormalizeValue(val)
	}
	return out
}

// stringOrNil keeps a nil result an untyped nil so it encodes as JSON null.
func stringOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
