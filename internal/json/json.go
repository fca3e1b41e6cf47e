// Package json wraps the JSON libraries used across the project: sonic for
// standard marshal/unmarshal and gjson for cheap path lookups on raw
// payloads.
package json

import (
	stdjson "encoding/json"

	"github.com/bytedance/sonic"
	"github.com/tidwall/gjson"
)

// std is configured for encoding/json compatible output.
var std = sonic.ConfigStd

// RawMessage is a raw encoded JSON value.
type RawMessage = stdjson.RawMessage

// Result is a gjson lookup result.
type Result = gjson.Result

// Result type values, re-exported for callers matching on Result.Type.
const (
	True  = gjson.True
	False = gjson.False
)

// Marshal encodes v as JSON.
func Marshal(v any) ([]byte, error) {
	return std.Marshal(v)
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error {
	return std.Unmarshal(data, v)
}

// GetBytes returns the value at path in data.
func GetBytes(data []byte, path string) Result {
	return gjson.GetBytes(data, path)
}

// ParseBytes parses data into a traversable Result.
func ParseBytes(data []byte) Result {
	return gjson.ParseBytes(data)
}

// ValidBytes reports whether data is well-formed JSON.
func ValidBytes(data []byte) bool {
	return gjson.ValidBytes(data)
}
