// Package message holds the host-neutral reply model plugins build before the
// host adapter converts it to protocol segments.
package message

import (
	"io/fs"
	"strconv"
	"strings"
)

// Segment types, named after their OneBot counterparts.
const (
	TypeText  = "text"
	TypeImage = "image"
	TypeAt    = "at"
)

// Segment is one unit of a message.
type Segment struct {
	Type string
	Data map[string]any
}

// Message is an ordered list of segments.
type Message []Segment

// Text returns a text segment.
func Text(s string) Segment {
	return Segment{Type: TypeText, Data: map[string]any{"text": s}}
}

// ImageFile returns an image segment addressed by a local path.
func ImageFile(path string) Segment {
	return Segment{Type: TypeImage, Data: map[string]any{"file": path}}
}

// ImageBytes returns an image segment carrying the image itself.
func ImageBytes(b []byte) Segment {
	return Segment{Type: TypeImage, Data: map[string]any{"bytes": b}}
}

// LoadImage reads name from fsys into an image segment, failing when it is not readable.
func LoadImage(fsys fs.FS, name string) (Segment, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Segment{}, err
	}
	seg := ImageBytes(b)
	seg.Data["file"] = name
	return seg, nil
}

// At returns a mention segment for userID.
func At(userID string) Segment {
	return Segment{Type: TypeAt, Data: map[string]any{"qq": userID}}
}

// PlainText concatenates the text segments of m.
func (m Message) PlainText() string {
	var b strings.Builder
	for _, seg := range m {
		if seg.Type == TypeText {
			b.WriteString(seg.Value("text"))
		}
	}
	return b.String()
}

// Value returns Data[key] rendered as a string, or "" when absent.
func (s Segment) Value(key string) string {
	switch v := s.Data[key].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// Reply is the single answer a command invocation produces.
type Reply struct {
	Message Message
	// AtSender mentions the invoking user in front of the message.
	AtSender bool
	// Quote sends the message as a reply to the invoking message.
	Quote bool
}

// TextReply is a Reply holding one text segment.
func TextReply(s string) Reply {
	return Reply{Message: Message{Text(s)}}
}

// ForwardNode is one attributed entry of a merged-forward message.
type ForwardNode struct {
	SenderID string
	Nickname string
	Content  Message
}
