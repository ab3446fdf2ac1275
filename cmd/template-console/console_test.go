package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/Hafuunano/Plugin-Template/lib/message"
	plugintemplate "github.com/Hafuunano/Plugin-Template/plugins/plugin-template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleSenderReply(t *testing.T) {
	var out bytes.Buffer
	c := newConsoleSender(&out, plugintemplate.Invocation{UserID: "42"})

	require.NoError(t, c.Reply(message.Reply{
		Message:  message.Message{message.Text("看图："), message.ImageBytes([]byte("abc")), message.At("1")},
		AtSender: true,
	}))
	assert.Equal(t, "@42 看图：[图片  3 bytes][at]\n", out.String())

	out.Reset()
	require.NoError(t, c.Reply(message.Reply{Message: message.Message{message.Text("x")}, Quote: true}))
	assert.Equal(t, "[回复] x\n", out.String())
}

func TestConsoleSenderForward(t *testing.T) {
	var out bytes.Buffer
	c := newConsoleSender(&out, plugintemplate.Invocation{UserID: "42"})
	nodes := plugintemplate.BuildForwardNodes("42", "昵称", []string{"a"}, message.ImageFile("pic/a.png"))

	require.NoError(t, c.SendPrivateForward("42", nodes))
	assert.Equal(t, "[合并转发 → 私聊 42, 2 条]\n  昵称(42): a\n  昵称(42): [图片 pic/a.png]\n", out.String())
}

func TestConsoleDispatchesThroughPlugin(t *testing.T) {
	cfg := plugintemplate.DefaultConfig()
	s := &session{
		tpl:  plugintemplate.New(cfg),
		base: plugintemplate.Invocation{UserID: "42"},
	}
	var out bytes.Buffer
	ok := s.tpl.Dispatch(context.Background(), s.invocation("/固定文本含传参 关键词2"), newConsoleSender(&out, s.base))
	require.True(t, ok)
	assert.Equal(t, "@42 链接：www.baidu.com\n", out.String())
}

func TestCommandsCmd(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"commands"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "/本地图片  (本地图片别名)\n")
	assert.Contains(t, out.String(), "/合并转发\n")
}
