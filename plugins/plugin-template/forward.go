package plugintemplate

import "github.com/Hafuunano/Plugin-Template/lib/message"

// DefaultNickname names the forward sender when the invoker has no card or nickname.
const DefaultNickname = "亻尔女子"

// BuildForwardNodes emits, for each text, a text node followed by an image
// node, all attributed to senderID/nickname.
func BuildForwardNodes(senderID, nickname string, texts []string, image message.Segment) []message.ForwardNode {
	nodes := make([]message.ForwardNode, 0, 2*len(texts))
	for _, t := range texts {
		nodes = append(nodes,
			message.ForwardNode{SenderID: senderID, Nickname: nickname, Content: message.Message{message.Text(t)}},
			message.ForwardNode{SenderID: senderID, Nickname: nickname, Content: message.Message{image}},
		)
	}
	return nodes
}

// deliverForward sends nodes to the group the invocation came from, or to the
// private conversation when there is no group.
func deliverForward(s Sender, inv Invocation, nodes []message.ForwardNode) error {
	if inv.InGroup() {
		return s.SendGroupForward(inv.GroupID, nodes)
	}
	return s.SendPrivateForward(inv.UserID, nodes)
}
