package plugintemplate

import "path"

// KeywordReply pairs a command argument with its reply payload.
type KeywordReply[T any] struct {
	Keyword string
	Payload T
}

// Table is an ordered, read-only keyword table. Order is authoring order.
type Table[T any] struct {
	entries []KeywordReply[T]
}

// NewTable copies entries into a Table.
func NewTable[T any](entries ...KeywordReply[T]) Table[T] {
	return Table[T]{entries: append([]KeywordReply[T](nil), entries...)}
}

// Lookup returns the payload of the first entry whose keyword equals keyword exactly.
func (t Table[T]) Lookup(keyword string) (T, bool) {
	for _, e := range t.entries {
		if e.Keyword == keyword {
			return e.Payload, true
		}
	}
	var zero T
	return zero, false
}

func (t Table[T]) Len() int { return len(t.entries) }

// Tables holds every keyword table the handlers consult. Image and file
// payloads are paths inside the resource filesystem.
type Tables struct {
	Images Table[string]
	Files  Table[string]
	Texts  Table[string]
}

// NewTables builds the tables once from config.
func NewTables(cfg Config) Tables {
	return Tables{
		Images: tableFrom(cfg.Images, resourcePath),
		Files:  tableFrom(cfg.Files, resourcePath),
		Texts:  tableFrom(cfg.Texts, func(s string) string { return s }),
	}
}

func tableFrom(rows []KeywordEntry, payload func(string) string) Table[string] {
	entries := make([]KeywordReply[string], 0, len(rows))
	for _, r := range rows {
		entries = append(entries, KeywordReply[string]{Keyword: r.Keyword, Payload: payload(r.Value)})
	}
	return NewTable(entries...)
}

// resourcePath normalizes a config path to an fs.FS name ("./pic/a.png" -> "pic/a.png").
func resourcePath(p string) string {
	p = path.Clean("/" + p)
	return p[1:]
}
