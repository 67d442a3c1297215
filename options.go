package googlestt

import "github.com/sirupsen/logrus"

// EngineOption customizes an Engine at construction.
type EngineOption func(*Engine)

// WithLogger routes all engine and session logging through log. The default
// is the logrus standard logger.
func WithLogger(log *logrus.Logger) EngineOption {
	return func(e *Engine) {
		e.log = log
	}
}
