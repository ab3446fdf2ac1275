package plugintemplate

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/Hafuunano/Plugin-Template/lib/command"
	"github.com/Hafuunano/Plugin-Template/lib/logging"
	"github.com/Hafuunano/Plugin-Template/lib/message"
	"github.com/Hafuunano/Plugin-Template/lib/request"
	"github.com/Hafuunano/Plugin-Template/middlewares/whitelist"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed res
var embeddedRes embed.FS

// Command names.
const (
	CmdLocalImage     = "本地图片"
	CmdRandomDog      = "狗狗图"
	CmdImageByKeyword = "本地图片含传参"
	CmdFileByKeyword  = "本地文件含传参"
	CmdFixedText      = "固定文本"
	CmdTextByKeyword  = "固定文本含传参"
	CmdAgeCalc        = "生肖计算"
	CmdMergedForward  = "合并转发"
)

const (
	aliasLocalImage = "本地图片别名"
	aliasRandomDog  = "狗狗图别名"
)

// Commands lists every command the plugin answers, with aliases.
var Commands = []command.Command{
	{Name: CmdLocalImage, Aliases: []string{aliasLocalImage}},
	{Name: CmdRandomDog, Aliases: []string{aliasRandomDog}},
	{Name: CmdImageByKeyword},
	{Name: CmdFileByKeyword},
	{Name: CmdFixedText},
	{Name: CmdTextByKeyword},
	{Name: CmdAgeCalc},
	{Name: CmdMergedForward},
}

// Invocation is one inbound command message as seen by the plugin.
type Invocation struct {
	Text     string
	UserID   string
	GroupID  string
	Nickname string
}

// InGroup reports whether the message came from a group chat.
func (inv Invocation) InGroup() bool {
	return inv.GroupID != "" && inv.GroupID != "0"
}

// Sender delivers the plugin's output back to the chat.
type Sender interface {
	Reply(r message.Reply) error
	SendGroupForward(groupID string, nodes []message.ForwardNode) error
	SendPrivateForward(userID string, nodes []message.ForwardNode) error
}

// call carries one invocation through a handler.
type call struct {
	inv    Invocation
	arg    string
	sender Sender
	logger *zap.Logger
}

// handler returns the reply to send, or nil when it already delivered its one message.
type handler func(ctx context.Context, c *call) *message.Reply

// Template answers the template commands. It holds only values built at startup.
type Template struct {
	cfg       Config
	res       fs.FS
	tables    Tables
	api       *API
	commands  *command.Set
	whitelist *whitelist.List
	logger    *zap.Logger
	handlers  map[string]handler
}

// Option customizes New.
type Option func(*Template)

// WithResources replaces the resource filesystem.
func WithResources(fsys fs.FS) Option {
	return func(t *Template) { t.res = fsys }
}

// WithFetcher replaces the HTTP fetcher used by the remote handlers.
func WithFetcher(f Fetcher) Option {
	return func(t *Template) { t.api.fetch = f }
}

// WithWhitelist restricts commands to the groups in l.
func WithWhitelist(l *whitelist.List) Option {
	return func(t *Template) { t.whitelist = l }
}

// WithLogger sets the plugin logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Template) {
		if l != nil {
			t.logger = l
		}
	}
}

// New builds a Template from cfg. Resources default to cfg.ResourceDir, or the
// embedded res/ directory when that is empty.
func New(cfg Config, opts ...Option) *Template {
	t := &Template{
		cfg:      cfg,
		tables:   NewTables(cfg),
		commands: command.NewSet(cfg.CommandPrefixes, Commands...),
		logger:   zap.NewNop(),
	}
	if cfg.ResourceDir != "" {
		t.res = os.DirFS(cfg.ResourceDir)
	} else {
		t.res, _ = fs.Sub(embeddedRes, "res")
	}
	t.api = NewAPI(nil, cfg.DogAPI, cfg.AgeAPI, t.logger)
	for _, opt := range opts {
		opt(t)
	}
	t.api.logger = t.logger
	if t.api.fetch == nil {
		t.api.fetch = request.NewClient(request.WithTimeout(cfg.HTTPTimeout), request.WithLogger(t.logger))
	}
	t.handlers = map[string]handler{
		CmdLocalImage:     t.handleLocalImage,
		CmdRandomDog:      t.handleRandomDog,
		CmdImageByKeyword: t.handleImageByKeyword,
		CmdFileByKeyword:  t.handleFileByKeyword,
		CmdFixedText:      t.handleFixedText,
		CmdTextByKeyword:  t.handleTextByKeyword,
		CmdAgeCalc:        t.handleAgeCalc,
		CmdMergedForward:  t.handleMergedForward,
	}
	return t
}

// Load reads config under dataDir and builds the Template with its logger and,
// when enabled, the group whitelist.
func Load(dataDir string) (*Template, error) {
	cfg, err := LoadConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("%s config: %w", pluginName, err)
	}
	opts := []Option{WithLogger(logging.OrNop(pluginName, cfg.Debug))}
	if cfg.Whitelist {
		l, err := whitelist.Load(dataDir)
		if err != nil {
			return nil, fmt.Errorf("%s whitelist: %w", pluginName, err)
		}
		opts = append(opts, WithWhitelist(l))
	}
	return New(cfg, opts...), nil
}

// Config returns the configuration the plugin was built with.
func (t *Template) Config() Config { return t.cfg }

// Dispatch runs the handler matching inv.Text and sends exactly one reply.
// It reports whether inv was a command of this plugin.
func (t *Template) Dispatch(ctx context.Context, inv Invocation, s Sender) bool {
	name, arg, ok := t.commands.Match(inv.Text)
	if !ok {
		return false
	}
	if t.whitelist != nil && !t.whitelist.Allows(inv.GroupID) {
		t.logger.Debug("group not in whitelist", zap.String("cmd", name), zap.String("group_id", inv.GroupID))
		return false
	}
	c := &call{
		inv:    inv,
		arg:    arg,
		sender: s,
		logger: t.logger.With(zap.String("cmd", name), zap.String("request_id", uuid.NewString())),
	}
	c.logger.Info("command", zap.String("arg", arg), zap.String("user_id", inv.UserID))
	reply := t.handlers[name](ctx, c)
	if reply == nil {
		return true
	}
	if err := s.Reply(*reply); err != nil {
		c.logger.Error("reply failed", zap.Error(err))
	}
	return true
}
