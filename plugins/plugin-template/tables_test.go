package plugintemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableLookup(t *testing.T) {
	tbl := NewTable(
		KeywordReply[string]{Keyword: "a", Payload: "first"},
		KeywordReply[string]{Keyword: "b", Payload: "second"},
		KeywordReply[string]{Keyword: "a", Payload: "shadowed"},
	)
	assert.Equal(t, 3, tbl.Len())

	got, ok := tbl.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "first", got, "first listed entry wins")

	got, ok = tbl.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, "second", got)

	_, ok = tbl.Lookup("A")
	assert.False(t, ok, "match is exact")
	_, ok = tbl.Lookup(" a")
	assert.False(t, ok)
}

func TestNewTableCopiesEntries(t *testing.T) {
	entries := []KeywordReply[int]{{Keyword: "k", Payload: 1}}
	tbl := NewTable(entries...)
	entries[0].Payload = 2

	got, _ := tbl.Lookup("k")
	assert.Equal(t, 1, got)
}

func TestNewTablesNormalizesPaths(t *testing.T) {
	cfg := Config{
		Images: []KeywordEntry{{Keyword: "i", Value: "./pic/a.png"}},
		Files:  []KeywordEntry{{Keyword: "f", Value: "txt//1.txt"}},
		Texts:  []KeywordEntry{{Keyword: "t", Value: "./not/a/path"}},
	}
	tables := NewTables(cfg)

	img, _ := tables.Images.Lookup("i")
	assert.Equal(t, "pic/a.png", img)
	file, _ := tables.Files.Lookup("f")
	assert.Equal(t, "txt/1.txt", file)
	text, _ := tables.Texts.Lookup("t")
	assert.Equal(t, "./not/a/path", text)
}
