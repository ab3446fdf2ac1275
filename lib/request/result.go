package request

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Kind tags which variant a Result holds.
type Kind uint8

const (
	// KindAbsent marks a failed fetch.
	KindAbsent Kind = iota
	// KindText holds a decoded text body.
	KindText
	// KindJSON holds a parsed JSON body.
	KindJSON
	// KindBytes holds the raw body.
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindText:
		return "text"
	case KindJSON:
		return "json"
	case KindBytes:
		return "bytes"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Result is the outcome of one Fetch. The zero value is absent, which is the
// only failure signal callers get.
type Result struct {
	kind Kind
	text string
	json gjson.Result
	raw  []byte
}

// TextResult wraps a decoded text body.
func TextResult(s string) Result { return Result{kind: KindText, text: s} }

// JSONResult wraps a parsed JSON body.
func JSONResult(v gjson.Result) Result { return Result{kind: KindJSON, json: v} }

// BytesResult wraps a raw body.
func BytesResult(b []byte) Result { return Result{kind: KindBytes, raw: b} }

// Kind returns the variant r holds.
func (r Result) Kind() Kind { return r.kind }

// IsAbsent reports whether the fetch failed.
func (r Result) IsAbsent() bool { return r.kind == KindAbsent }

// Text returns the text body; ok is false unless r is KindText.
func (r Result) Text() (string, bool) {
	return r.text, r.kind == KindText
}

// JSON returns the parsed body; ok is false unless r is KindJSON.
func (r Result) JSON() (gjson.Result, bool) {
	return r.json, r.kind == KindJSON
}

// Bytes returns the raw body; ok is false unless r is KindBytes.
func (r Result) Bytes() ([]byte, bool) {
	return r.raw, r.kind == KindBytes
}
