package plugintemplate

import (
	"context"

	"github.com/Hafuunano/Plugin-Template/lib/request"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Fetcher is the part of *request.Client the remote handlers use.
type Fetcher interface {
	Fetch(ctx context.Context, url string, mode request.Mode, opts ...request.Option) (request.Result, error)
}

// dogStatusSuccess is the status the dog API reports for a usable picture URL.
const dogStatusSuccess = "success"

// API wraps the third-party endpoints the plugin calls.
type API struct {
	fetch  Fetcher
	dogURL string
	ageURL string
	logger *zap.Logger
}

// NewAPI returns an API calling dogURL and ageURL through f.
func NewAPI(f Fetcher, dogURL, ageURL string, logger *zap.Logger) *API {
	return &API{fetch: f, dogURL: dogURL, ageURL: ageURL, logger: logger}
}

func (a *API) get(ctx context.Context, url string, mode request.Mode, opts ...request.Option) request.Result {
	res, err := a.fetch.Fetch(ctx, url, mode, opts...)
	if err != nil {
		a.logger.Error("invalid fetch", zap.String("url", url), zap.Error(err))
		return request.Result{}
	}
	return res
}

// AgeCalc asks the age calculator about birthday. ok is false when the call failed.
func (a *API) AgeCalc(ctx context.Context, birthday string) (string, bool) {
	return a.get(ctx, a.ageURL, request.ModeText, request.WithQuery("birthday", birthday)).Text()
}

// dogAPIReturn is the stage-one body: {"message": "<image url>", "status": "success"}.
type dogAPIReturn struct {
	Message string
	Status  string
}

func parseDogAPIReturn(v gjson.Result) (dogAPIReturn, bool) {
	msg, status := v.Get("message"), v.Get("status")
	if msg.Type != gjson.String || status.Type != gjson.String {
		return dogAPIReturn{}, false
	}
	return dogAPIReturn{Message: msg.String(), Status: status.String()}, true
}

// RandomDog fetches the picture location, then the picture itself. Stage two
// only runs when stage one produced a well-formed success body.
func (a *API) RandomDog(ctx context.Context) ([]byte, bool) {
	v, ok := a.get(ctx, a.dogURL, request.ModeJSON).JSON()
	if !ok {
		return nil, false
	}
	ret, ok := parseDogAPIReturn(v)
	if !ok {
		a.logger.Warn("unexpected dog api body", zap.String("body", v.Raw))
		return nil, false
	}
	if ret.Status != dogStatusSuccess || ret.Message == "" {
		a.logger.Warn("dog api reported failure", zap.String("status", ret.Status))
		return nil, false
	}
	return a.get(ctx, ret.Message, request.ModeBytes).Bytes()
}
