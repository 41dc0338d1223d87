package docmerge

import (
	"fmt"
	"strconv"
	"strings"
)

// Context is the data tree field names are resolved against. Values can
// be scalars, nested contexts, or lists of contexts for repeating
// sections. A JSON or YAML object decoded into map[string]interface{}
// maps onto it directly.
type Context map[string]interface{}

// Resolve walks a dotted field name through the context one segment at
// a time. A missing key at any step reports absent (false), never an
// error; that is the hook for the remove-empty policy.
func Resolve(name string, data Context) (interface{}, bool) {
	if data == nil {
		return nil, false
	}

	segments := strings.Split(name, ".")
	current := interface{}(data)

	for i, segment := range segments {
		value, ok := lookupKey(current, segment)
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		current = value
	}
	return nil, false
}

// lookupKey reads one key from a map-like value.
func lookupKey(current interface{}, key string) (interface{}, bool) {
	switch v := current.(type) {
	case Context:
		value, ok := v[key]
		return value, ok
	case map[string]interface{}:
		value, ok := v[key]
		return value, ok
	case map[string]string:
		value, ok := v[key]
		return value, ok
	default:
		return nil, false
	}
}

// FormatValue converts a resolved scalar to its replacement text using
// locale-independent formatting.
func FormatValue(value interface{}) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', 10, 32)
	case float64:
		// 'g' with precision 15 drops binary-representation noise
		return strconv.FormatFloat(v, 'g', 15, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// scalarText reports whether a resolved value can be substituted into a
// field position, and its text form if so. Contexts and context lists
// are repeat data, not field values; the merger treats them as absent.
func scalarText(value interface{}) (string, bool) {
	switch value.(type) {
	case Context, map[string]interface{}, map[string]string,
		[]Context, []map[string]interface{}, []interface{}:
		return "", false
	}
	return FormatValue(value), true
}

// itemList interprets a resolved value as repeating-section data: a
// list whose elements are all contexts. Anything else, including a
// scalar or an absent value, is not repeat data.
func itemList(value interface{}) ([]Context, bool) {
	switch v := value.(type) {
	case []Context:
		return v, true
	case []map[string]interface{}:
		items := make([]Context, len(v))
		for i, m := range v {
			items[i] = Context(m)
		}
		return items, true
	case []interface{}:
		items := make([]Context, len(v))
		for i, elem := range v {
			switch m := elem.(type) {
			case Context:
				items[i] = m
			case map[string]interface{}:
				items[i] = Context(m)
			default:
				return nil, false
			}
		}
		return items, true
	default:
		return nil, false
	}
}

// overlay returns base with item merged on top; item keys shadow base
// keys of the same name. Neither input is modified.
func overlay(base, item Context) Context {
	merged := make(Context, len(base)+len(item))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range item {
		merged[k] = v
	}
	return merged
}
