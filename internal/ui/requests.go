package ui

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// scopeGlobal marks requests that survive navigation, such as an import run.
const scopeGlobal viewState = -1

type requestEntry struct {
	scope  viewState
	cancel context.CancelFunc
}

// requestRegistry tracks in-flight commands by token. Leaving a screen
// cancels the requests it issued, so late results are dropped instead of
// silently folded into state nobody is looking at.
type requestRegistry struct {
	inflight map[string]requestEntry
	logger   zerolog.Logger
}

func newRequestRegistry(logger zerolog.Logger) *requestRegistry {
	return &requestRegistry{
		inflight: make(map[string]requestEntry),
		logger:   logger.With().Str("component", "requests").Logger(),
	}
}

// begin registers a request under the given scope and returns its token and
// cancellable context.
func (r *requestRegistry) begin(scope viewState) (string, context.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	token := uuid.NewString()
	r.inflight[token] = requestEntry{scope: scope, cancel: cancel}
	return token, ctx
}

// settle reports whether the token is still tracked and releases it. A false
// return means the request was cancelled and its result must be dropped.
func (r *requestRegistry) settle(token string) bool {
	entry, ok := r.inflight[token]
	if !ok {
		r.logger.Debug().Str("token", token).Msg("dropping late result")
		return false
	}
	entry.cancel()
	delete(r.inflight, token)
	return true
}

// cancelScope cancels every outstanding request issued under scope.
func (r *requestRegistry) cancelScope(scope viewState) {
	for token, entry := range r.inflight {
		if entry.scope != scope {
			continue
		}
		entry.cancel()
		delete(r.inflight, token)
		r.logger.Debug().Str("token", token).Int("scope", int(scope)).Msg("cancelled in-flight request")
	}
}
