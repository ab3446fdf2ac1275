// Package plugintemplate: template plugin showing the common command shapes:
// local image, remote picture API, canned text, local text file, third-party
// API reply and merged-forward messages.
package plugintemplate

import (
	"context"
	"sync"

	"github.com/Hafuunano/Core-SkillAction/types"
	"github.com/Hafuunano/Plugin-Template/lib/logging"
	"github.com/Hafuunano/Protocol-ConvertTool/protocol"
	"go.uber.org/zap"
)

const pluginName = "plugin-template"

// Meta and registration (required: use WithMeta(Meta) then chain).
var Meta = types.NewPluginEngine("plugin-template-001", pluginName, "skill", true)
var p = protocol.Engine.WithMeta(Meta)

var (
	templateOnce sync.Once
	template     *Template
	templateErr  error
)

func init() {
	p.OnMessage().Func(Plugin)
}

// getTemplate loads config and builds the Template on first use.
func getTemplate() (*Template, error) {
	templateOnce.Do(func() {
		template, templateErr = Load("")
		if templateErr != nil {
			logging.OrNop(pluginName, false).Error("plugin disabled", zap.Error(templateErr))
		}
	})
	return template, templateErr
}

// Plugin is the required entry. Host calls it for each message with a protocol.Context.
func Plugin(ctx protocol.Context) {
	t, err := getTemplate()
	if err != nil {
		return
	}
	t.Dispatch(context.Background(), invocationFrom(ctx), hostSender{ctx: ctx})
}
