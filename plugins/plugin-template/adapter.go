package plugintemplate

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	"github.com/Hafuunano/Plugin-Template/lib/message"
	"github.com/Hafuunano/Protocol-ConvertTool/protocol"
)

func invocationFrom(ctx protocol.Context) Invocation {
	return Invocation{
		Text:     ctx.PlainText(),
		UserID:   ctx.UserID(),
		GroupID:  ctx.GroupID(),
		Nickname: ctx.SenderNickname(),
	}
}

// hostContext is the part of protocol.Context replies go out through.
type hostContext interface {
	UserID() string
	Send(msg protocol.Message) error
	SendWithReply(msg protocol.Message) error
}

// hostSender delivers replies through the host context. The host routes
// ctx.Send to the conversation the message came from, so group and private
// forwards share one path.
type hostSender struct {
	ctx hostContext
}

func (h hostSender) Reply(r message.Reply) error {
	msg := toProtocol(r.Message)
	if r.AtSender {
		msg = append(protocol.Message{
			protocol.Segment{Type: message.TypeAt, Data: map[string]any{"qq": h.ctx.UserID()}},
		}, msg...)
	}
	if r.Quote {
		return h.ctx.SendWithReply(msg)
	}
	return h.ctx.Send(msg)
}

func (h hostSender) SendGroupForward(_ string, nodes []message.ForwardNode) error {
	return h.ctx.Send(forwardMessage(nodes))
}

func (h hostSender) SendPrivateForward(_ string, nodes []message.ForwardNode) error {
	return h.ctx.Send(forwardMessage(nodes))
}

func forwardMessage(nodes []message.ForwardNode) protocol.Message {
	msg := make(protocol.Message, 0, len(nodes))
	for _, n := range nodes {
		msg = append(msg, protocol.Segment{Type: "node", Data: map[string]any{
			"user_id":  n.SenderID,
			"nickname": n.Nickname,
			"content":  toProtocol(n.Content),
		}})
	}
	return msg
}

// toProtocol converts segments to host segments. Image bytes travel as
// base64:// files; segment types the host has no constant for are sent back
// as CQ code text.
func toProtocol(m message.Message) protocol.Message {
	out := make(protocol.Message, 0, len(m))
	for _, seg := range m {
		switch seg.Type {
		case message.TypeText:
			out = append(out, protocol.Segment{Type: protocol.SegmentTypeText, Data: map[string]any{"text": seg.Value("text")}})
		case message.TypeImage:
			out = append(out, protocol.Segment{Type: message.TypeImage, Data: imageData(seg)})
		case message.TypeAt:
			out = append(out, protocol.Segment{Type: message.TypeAt, Data: copyData(seg.Data)})
		case "face":
			out = append(out, protocol.Segment{Type: "face", Data: copyData(seg.Data)})
		case "record":
			out = append(out, protocol.Segment{Type: "record", Data: copyData(seg.Data)})
		case "video":
			out = append(out, protocol.Segment{Type: "video", Data: copyData(seg.Data)})
		default:
			out = append(out, protocol.Segment{Type: protocol.SegmentTypeText, Data: map[string]any{"text": cqCode(seg)}})
		}
	}
	return out
}

func imageData(seg message.Segment) map[string]any {
	if b, ok := seg.Data["bytes"].([]byte); ok {
		return map[string]any{"file": "base64://" + base64.StdEncoding.EncodeToString(b)}
	}
	return copyData(seg.Data)
}

func copyData(d map[string]any) map[string]any {
	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

var cqEscaper = strings.NewReplacer("&", "&amp;", "[", "&#91;", "]", "&#93;", ",", "&#44;")

// cqCode renders seg as [CQ:type,k=v,...] with keys sorted.
func cqCode(seg message.Segment) string {
	keys := make([]string, 0, len(seg.Data))
	for k := range seg.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("[CQ:" + seg.Type)
	for _, k := range keys {
		fmt.Fprintf(&b, ",%s=%s", k, cqEscaper.Replace(fmt.Sprint(seg.Data[k])))
	}
	b.WriteString("]")
	return b.String()
}
