package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Hafuunano/Plugin-Template/lib/message"
	plugintemplate "github.com/Hafuunano/Plugin-Template/plugins/plugin-template"
)

// consoleSender prints what the host would send.
type consoleSender struct {
	out io.Writer
	inv plugintemplate.Invocation
}

func newConsoleSender(out io.Writer, inv plugintemplate.Invocation) *consoleSender {
	return &consoleSender{out: out, inv: inv}
}

func (c *consoleSender) Reply(r message.Reply) error {
	var b strings.Builder
	if r.Quote {
		b.WriteString("[回复] ")
	}
	if r.AtSender {
		b.WriteString("@" + c.inv.UserID + " ")
	}
	b.WriteString(render(r.Message))
	_, err := fmt.Fprintln(c.out, b.String())
	return err
}

func (c *consoleSender) SendGroupForward(groupID string, nodes []message.ForwardNode) error {
	return c.forward("群 "+groupID, nodes)
}

func (c *consoleSender) SendPrivateForward(userID string, nodes []message.ForwardNode) error {
	return c.forward("私聊 "+userID, nodes)
}

func (c *consoleSender) forward(target string, nodes []message.ForwardNode) error {
	if _, err := fmt.Fprintf(c.out, "[合并转发 → %s, %d 条]\n", target, len(nodes)); err != nil {
		return err
	}
	for _, n := range nodes {
		if _, err := fmt.Fprintf(c.out, "  %s(%s): %s\n", n.Nickname, n.SenderID, render(n.Content)); err != nil {
			return err
		}
	}
	return nil
}

// render prints text as-is and every other segment as a bracketed tag.
func render(m message.Message) string {
	var b strings.Builder
	for _, seg := range m {
		switch seg.Type {
		case message.TypeText:
			b.WriteString(seg.Value("text"))
		case message.TypeImage:
			name := seg.Value("file")
			if raw, ok := seg.Data["bytes"].([]byte); ok {
				fmt.Fprintf(&b, "[图片 %s %d bytes]", name, len(raw))
			} else {
				fmt.Fprintf(&b, "[图片 %s]", name)
			}
		default:
			fmt.Fprintf(&b, "[%s]", seg.Type)
		}
	}
	return b.String()
}
