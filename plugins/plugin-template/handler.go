package plugintemplate

import (
	"context"
	"io/fs"

	"github.com/Hafuunano/Plugin-Template/lib/message"
	"go.uber.org/zap"
)

// User-facing replies.
const (
	NotFoundText      = "\n果咩，没有此关键词的索引，请联系bot管理员添加~"
	SendFailedText    = "\n发送失败喵，请检查后台日志排查问题~"
	ReadFailedText    = "\n读取文件失败了，请查看后台输出"
	DogFailedText     = "请求失败，这里写相关的错误的提示内容，告诉用户失败了"
	RequestFailedText = "\n请求异常，可能是网络问题或者API挂了喵~（请检查后台日志排查）"
	ForwardFailedText = "果咩，数据发送失败喵~请查看源码和日志定位问题原因"
	ResultLabel       = "返回结果："
)

func atSender(msg message.Message) *message.Reply {
	return &message.Reply{Message: msg, AtSender: true}
}

func atSenderText(s string) *message.Reply {
	return atSender(message.Message{message.Text(s)})
}

func (t *Template) handleLocalImage(_ context.Context, c *call) *message.Reply {
	img, err := message.LoadImage(t.res, resourcePath(t.cfg.LocalImage))
	if err != nil {
		c.logger.Error("send failed", zap.String("path", t.cfg.LocalImage), zap.Error(err))
		return atSenderText(SendFailedText)
	}
	return atSender(message.Message{img})
}

func (t *Template) handleRandomDog(ctx context.Context, c *call) *message.Reply {
	pic, ok := t.api.RandomDog(ctx)
	if !ok {
		r := message.TextReply(DogFailedText)
		return &r
	}
	return &message.Reply{Message: message.Message{message.ImageBytes(pic)}}
}

func (t *Template) handleImageByKeyword(_ context.Context, c *call) *message.Reply {
	name, ok := t.tables.Images.Lookup(c.arg)
	if !ok {
		return atSenderText(NotFoundText)
	}
	img, err := message.LoadImage(t.res, name)
	if err != nil {
		c.logger.Error("send failed", zap.String("path", name), zap.Error(err))
		return atSenderText(SendFailedText)
	}
	return atSender(message.Message{img})
}

func (t *Template) handleFileByKeyword(_ context.Context, c *call) *message.Reply {
	name, ok := t.tables.Files.Lookup(c.arg)
	if !ok {
		return atSenderText(NotFoundText)
	}
	b, err := fs.ReadFile(t.res, name)
	if err != nil {
		c.logger.Error("read file failed", zap.String("path", name), zap.Error(err))
		return atSenderText(ReadFailedText)
	}
	return atSender(message.ParseCQ(string(b)))
}

func (t *Template) handleFixedText(_ context.Context, _ *call) *message.Reply {
	return atSenderText(t.cfg.FixedText)
}

func (t *Template) handleTextByKeyword(_ context.Context, c *call) *message.Reply {
	text, ok := t.tables.Texts.Lookup(c.arg)
	if !ok {
		return atSenderText(NotFoundText)
	}
	return atSenderText(text)
}

func (t *Template) handleAgeCalc(ctx context.Context, c *call) *message.Reply {
	res, ok := t.api.AgeCalc(ctx, c.arg)
	if !ok {
		return atSenderText(RequestFailedText)
	}
	return &message.Reply{Message: message.Message{message.Text(ResultLabel + res)}, Quote: true}
}

func (t *Template) handleMergedForward(_ context.Context, c *call) *message.Reply {
	failed := &message.Reply{Message: message.Message{message.Text(ForwardFailedText)}, Quote: true}
	img, err := message.LoadImage(t.res, resourcePath(t.cfg.ForwardImage))
	if err != nil {
		c.logger.Error("load forward image failed", zap.String("path", t.cfg.ForwardImage), zap.Error(err))
		return failed
	}
	nickname := c.inv.Nickname
	if nickname == "" {
		nickname = DefaultNickname
	}
	nodes := BuildForwardNodes(c.inv.UserID, nickname, t.cfg.ForwardTexts, img)
	if err := deliverForward(c.sender, c.inv, nodes); err != nil {
		c.logger.Error("send forward failed", zap.Bool("group", c.inv.InGroup()), zap.Error(err))
		return failed
	}
	return nil
}
