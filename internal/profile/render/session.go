package render

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/janisto/profile-composer/internal/platform/auth"
	applog "github.com/janisto/profile-composer/internal/platform/logging"
	"github.com/janisto/profile-composer/internal/profile/composer"
)

// Loader composes the view for a username.
type Loader interface {
	Load(ctx context.Context, username string) composer.Result
}

// Session is the state machine of one page view. Navigate starts a load for
// a username; the result is applied only if that navigation is still the
// active one, was not canceled, and the session is still loading. Each
// applied result fires onRender exactly once.
type Session struct {
	ctx        context.Context
	loader     Loader
	dispatcher *Dispatcher
	viewer     auth.Viewer
	onRender   func(username string, out Outcome)

	mu       sync.Mutex
	username string
	gen      uint64
	outcome  Outcome
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewSession creates a Session bound to ctx. onRender may be nil.
func NewSession(
	ctx context.Context,
	loader Loader,
	dispatcher *Dispatcher,
	viewer auth.Viewer,
	onRender func(username string, out Outcome),
) *Session {
	return &Session{
		ctx:        ctx,
		loader:     loader,
		dispatcher: dispatcher,
		viewer:     viewer,
		onRender:   onRender,
		outcome:    Outcome{State: StateLoading},
	}
}

// Navigate switches the session to username. Navigating to the active
// username is a no-op whatever the state; any other username supersedes and
// cancels the outstanding load.
func (s *Session) Navigate(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen > 0 && username == s.username {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}

	s.gen++
	ctx, cancel := context.WithCancel(applog.WithFields(s.ctx, zap.Uint64("navigation", s.gen)))
	s.cancel = cancel
	s.username = username
	s.outcome = Outcome{State: StateLoading}

	gen := s.gen
	s.wg.Go(func() {
		defer cancel()
		res := s.loader.Load(ctx, username)
		s.settle(ctx, gen, username, res)
	})
}

func (s *Session) settle(ctx context.Context, gen uint64, username string, res composer.Result) {
	s.mu.Lock()
	if ctx.Err() != nil || gen != s.gen || username != s.username || s.outcome.State != StateLoading {
		s.mu.Unlock()
		applog.LoggerFromContext(ctx).Debug("discarding superseded load", zap.String("username", username))
		return
	}
	out := s.dispatcher.Render(res.View, s.viewer)
	s.outcome = out
	onRender := s.onRender
	s.mu.Unlock()

	logOutcome(ctx, username, out, res)
	if onRender != nil {
		onRender(username, out)
	}
}

// Username returns the active username.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// Outcome returns the current outcome of the active navigation.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Wait blocks until every started load has returned.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels the outstanding load and waits for it to return.
func (s *Session) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
