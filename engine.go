package googlestt

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Engine is the host-facing entry point. It holds the configuration
// snapshot and a channel shared by all sessions; the channel is built
// lazily on the first Create so an engine can be constructed before
// credentials are reachable.
type Engine struct {
	cfg Config
	log *logrus.Logger

	mu     sync.Mutex
	opener streamOpener
	seq    int
	closed bool
}

// NewEngine creates an engine from a configuration snapshot. The snapshot
// is copied; later changes to the caller's Config do not affect the engine
// or its sessions.
func NewEngine(cfg Config, opts ...EngineOption) *Engine {
	cfg.applyDefaults()
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	return e
}

// Create sets up one recognition session. The format hint supplies the
// sample rate; a missing or invalid value defaults to 16000 Hz. Creation
// fails when no channel can be established; it is never retried internally,
// though the caller may call Create again.
func (e *Engine) Create(hint Format) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}
	if e.opener == nil {
		ch, err := newChannel(context.Background(), e.cfg, logrus.NewEntry(e.log))
		if err != nil {
			return nil, err
		}
		e.opener = ch
	}

	rate := hint.SampleRate
	if rate <= 0 {
		e.log.WithField("sample_rate", hint.SampleRate).
			Warn("invalid or missing sample rate, defaulting to 16000 Hz")
		rate = DefaultSampleRate
	}

	e.seq++
	name := fmt.Sprintf("google-%d", e.seq)
	sc := SessionConfig{
		Name:                       name,
		LanguageCode:               e.cfg.LanguageCode,
		Model:                      e.cfg.Model,
		SampleRate:                 rate,
		EnableAutomaticPunctuation: e.cfg.EnableAutomaticPunctuation,
		StreamTimeout:              e.cfg.StreamTimeout,
	}
	return newSession(sc, e.opener, e.log.WithField("session", name)), nil
}

// Config returns the engine's configuration snapshot.
func (e *Engine) Config() Config {
	return e.cfg
}

// Close releases the engine's channel reference. Sessions created earlier
// keep the channel alive until each is destroyed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.opener != nil {
		e.opener.release()
		e.opener = nil
	}
	return nil
}
