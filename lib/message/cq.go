package message

import (
	"regexp"
	"strings"
)

// cqCodeRegex matches CQ codes like [CQ:image,file=a.png] or [CQ:face,id=1].
var cqCodeRegex = regexp.MustCompile(`\[CQ:([A-Za-z0-9_.\-]+)((?:,[^\]]*)?)\]`)

var (
	textUnescaper  = strings.NewReplacer("&#91;", "[", "&#93;", "]", "&amp;", "&")
	paramUnescaper = strings.NewReplacer("&#91;", "[", "&#93;", "]", "&#44;", ",", "&amp;", "&")
)

// ParseCQ turns raw text holding CQ codes into segments. Text between codes
// becomes text segments; each code becomes a segment of its own type.
func ParseCQ(s string) Message {
	var msg Message
	last := 0
	for _, loc := range cqCodeRegex.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] > last {
			msg = append(msg, Text(textUnescaper.Replace(s[last:loc[0]])))
		}
		data := map[string]any{}
		for _, kv := range strings.Split(s[loc[4]:loc[5]], ",") {
			if kv == "" {
				continue
			}
			k, v, _ := strings.Cut(kv, "=")
			data[strings.TrimSpace(k)] = paramUnescaper.Replace(v)
		}
		msg = append(msg, Segment{Type: s[loc[2]:loc[3]], Data: data})
		last = loc[1]
	}
	if last < len(s) {
		msg = append(msg, Text(textUnescaper.Replace(s[last:])))
	}
	return msg
}
