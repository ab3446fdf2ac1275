// Package command matches prefixed chat commands and splits off their argument.
package command

import (
	"sort"
	"strings"
)

// DefaultPrefixes is used when a Set is built without prefixes.
var DefaultPrefixes = []string{"/"}

// Command is a command name plus the aliases that also trigger it.
type Command struct {
	Name    string
	Aliases []string
}

type trigger struct {
	word string
	name string
}

// Set is an immutable collection of commands sharing the same prefixes.
type Set struct {
	prefixes []string
	triggers []trigger
}

// NewSet builds a Set. Prefixes and triggers are tried longest first, so a
// command whose name extends another's ("本地图片含传参" vs "本地图片") wins.
func NewSet(prefixes []string, cmds ...Command) *Set {
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}
	s := &Set{prefixes: append([]string(nil), prefixes...)}
	for _, c := range cmds {
		s.triggers = append(s.triggers, trigger{word: c.Name, name: c.Name})
		for _, a := range c.Aliases {
			s.triggers = append(s.triggers, trigger{word: a, name: c.Name})
		}
	}
	sort.SliceStable(s.prefixes, func(i, j int) bool { return len(s.prefixes[i]) > len(s.prefixes[j]) })
	sort.SliceStable(s.triggers, func(i, j int) bool { return len(s.triggers[i].word) > len(s.triggers[j].word) })
	return s
}

// Match returns the canonical command name and the trimmed argument text when
// text starts with a prefix followed by a known trigger.
func (s *Set) Match(text string) (name, arg string, ok bool) {
	text = strings.TrimSpace(text)
	for _, prefix := range s.prefixes {
		if !strings.HasPrefix(text, prefix) {
			continue
		}
		rest := text[len(prefix):]
		for _, t := range s.triggers {
			if t.word != "" && strings.HasPrefix(rest, t.word) {
				return t.name, strings.TrimSpace(rest[len(t.word):]), true
			}
		}
	}
	return "", "", false
}

// Prefixes returns the prefixes in match order.
func (s *Set) Prefixes() []string {
	return append([]string(nil), s.prefixes...)
}
