package pattern

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// TextKey is the map key generic XML converters use for element text.
const TextKey = "#text"

// Stringify returns the display form of a record value. Strings are emitted
// as-is, numbers and booleans in their canonical form, nil as the empty
// string, and composite values as compact JSON. Elements converted from XML
// that carry attributes display their text content.
//
// The boolean result is false when v had to be rendered with a generic
// fallback.
func Stringify(v any) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", true
	case string:
		return value, true
	case []byte:
		return string(value), true
	case bool:
		return strconv.FormatBool(value), true
	case int:
		return strconv.Itoa(value), true
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(value).Int(), 10), true
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(value).Uint(), 10), true
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case json.Number:
		return canonicalNumber(value), true
	case fmt.Stringer:
		return value.String(), true
	case map[string]any:
		if text, ok := value[TextKey]; ok {
			return Stringify(text)
		}
		return marshal(value)
	case Record:
		return Stringify(map[string]any(value))
	case error:
		return value.Error(), true
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return marshal(v)
	}
	return fmt.Sprint(v), false
}

func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	// Integers beyond int64 would lose digits as float64.
	if !strings.ContainsAny(n.String(), ".eE") {
		return n.String()
	}
	if f, err := n.Float64(); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return n.String()
}

func marshal(v any) (string, bool) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v), false
	}
	return strings.TrimSuffix(buf.String(), "\n"), true
}
