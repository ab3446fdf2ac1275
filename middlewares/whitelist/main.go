// Package whitelist limits plugins to the groups listed in config.
// Config is read from data/config/whitelist/config.yaml; if missing, a default empty list is created and saved.
package whitelist

import (
	"github.com/Hafuunano/Plugin-Template/lib/config"
	"github.com/Hafuunano/Protocol-ConvertTool/protocol"
	"go.uber.org/zap"
)

const pluginName = "whitelist"

// RejectText is sent when a group outside the list triggers the middleware.
const RejectText = "此群未在白名单中"

// Config is the whitelist config file structure.
type Config struct {
	GroupIDs []string `yaml:"group_ids" env:"WHITELIST_GROUP_IDS"`
}

// List is an immutable set of allowed group IDs.
type List struct {
	allowed map[string]struct{}
}

// New builds a List from group IDs; empty IDs are skipped.
func New(groupIDs []string) *List {
	l := &List{allowed: make(map[string]struct{}, len(groupIDs))}
	for _, id := range groupIDs {
		if id != "" {
			l.allowed[id] = struct{}{}
		}
	}
	return l
}

// Load reads the whitelist under dataDir ("" means DATA_DIR or "data"),
// creating a config with an empty group_ids list when none exists.
func Load(dataDir string) (*List, error) {
	cfg := Config{GroupIDs: []string{}}
	if err := config.Load(config.DataDir(dataDir), pluginName, &cfg); err != nil {
		return nil, err
	}
	return New(cfg.GroupIDs), nil
}

// Allows reports whether a message from groupID may pass. Private messages
// (no group) always pass.
func (l *List) Allows(groupID string) bool {
	if groupID == "" || groupID == "0" {
		return true
	}
	_, ok := l.allowed[groupID]
	return ok
}

// Len returns the number of allowed groups.
func (l *List) Len() int { return len(l.allowed) }

// groupChat is the part of protocol.Context the middleware reads and answers through.
type groupChat interface {
	GroupID() string
	Send(msg protocol.Message) error
}

// Handler returns a host middleware that continues only when ctx.GroupID() is
// allowed and answers RejectText otherwise. A nil logger discards the debug line.
func Handler(l *List, logger *zap.Logger) func(protocol.Context, func()) {
	gate := l.gate(logger)
	return func(ctx protocol.Context, next func()) {
		gate(ctx, next)
	}
}

func (l *List) gate(logger *zap.Logger) func(groupChat, func()) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx groupChat, next func()) {
		if l.Allows(ctx.GroupID()) {
			next()
			return
		}
		logger.Debug("group rejected", zap.String("group_id", ctx.GroupID()))
		msg := protocol.Message{
			protocol.Segment{Type: protocol.SegmentTypeText, Data: map[string]any{"text": RejectText}},
		}
		if err := ctx.Send(msg); err != nil {
			logger.Warn("send reject failed", zap.String("group_id", ctx.GroupID()), zap.Error(err))
		}
	}
}
