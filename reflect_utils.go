package clausewitz

import (
	"reflect"
	"strings"
)

// ResolveStructKey returns the wire key bound to a struct field.
// Priority: `ck` tag > `json` tag > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if name := tagName(sf, "ck"); name != "" {
		return name
	}
	if name := tagName(sf, "json"); name != "" {
		return name
	}
	return sf.Name
}

func tagName(sf reflect.StructField, key string) string {
	tag, ok := sf.Tag.Lookup(key)
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}
