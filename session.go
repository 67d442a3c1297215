package googlestt

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Session owns one duplex recognize stream for the lifetime of one
// utterance. It multiplexes outbound audio writes against inbound result
// reads: a dedicated reader goroutine is the only consumer of the inbound
// side and writes into the result buffer, so PushAudio and PollResult never
// block on network reads.
//
// A session supports one logical caller. Concurrent calls into the same
// session from multiple goroutines require external synchronization around
// the whole Start/PushAudio/Stop/PollResult surface.
type Session struct {
	cfg SessionConfig
	log *logrus.Entry

	mu       sync.Mutex
	writeMu  sync.Mutex
	state    State
	opener   streamOpener
	stream   recognizeStream
	cancel   context.CancelFunc
	reader   chan struct{}
	readErr  error
	released bool

	results resultBuffer
}

func newSession(cfg SessionConfig, opener streamOpener, log *logrus.Entry) *Session {
	opener.acquire()
	return &Session{
		cfg:    cfg,
		opener: opener,
		log:    log,
		state:  StateReady,
	}
}

// Name returns the session's diagnostic name.
func (s *Session) Name() string {
	return s.cfg.Name
}

// logger tolerates partially constructed sessions, which Destroy must
// accept.
func (s *Session) logger() *logrus.Entry {
	if s.log != nil {
		return s.log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start opens the duplex stream and sends the configuration frame. The
// configuration frame is the first frame on every stream and is sent exactly
// once per stream lifetime.
//
// When the stream cannot be opened the session stays Ready and Start may be
// retried. When the configuration frame cannot be written the stream is
// closed and the session moves to Error.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateReady:
	case StateUninitialized:
		return ErrSessionNotReady
	case StateStreaming, StateStopping:
		return NewError(ErrorStatusInvalidState, "stream already open")
	default:
		return ErrSessionTerminal
	}

	var streamCtx context.Context
	var cancel context.CancelFunc
	if s.cfg.StreamTimeout > 0 {
		streamCtx, cancel = context.WithTimeout(ctx, s.cfg.StreamTimeout)
	} else {
		streamCtx, cancel = context.WithCancel(ctx)
	}

	stream, err := s.opener.openStream(streamCtx)
	if err != nil {
		cancel()
		s.log.WithError(err).Error("failed to open recognize stream")
		return err
	}

	if err := stream.Send(configRequest(s.cfg)); err != nil {
		stream.CloseSend()
		cancel()
		s.state = StateError
		s.log.WithError(err).Error("failed to send configuration frame")
		return NewErrorWithCause(ErrorStatusStart, "failed to send configuration frame", err)
	}

	s.stream = stream
	s.cancel = cancel
	s.reader = make(chan struct{})
	s.state = StateStreaming

	s.log.WithFields(logrus.Fields{
		"language":    s.cfg.LanguageCode,
		"model":       s.cfg.Model,
		"sample_rate": s.cfg.SampleRate,
	}).Debug("recognition stream started")

	go s.readLoop(stream, s.reader)
	return nil
}

// PushAudio writes one audio-content frame. Valid only while streaming. A
// write failure is fatal for the stream: the session moves to Error and no
// retry is attempted.
func (s *Session) PushAudio(data []byte) error {
	s.mu.Lock()
	if s.state != StateStreaming {
		s.mu.Unlock()
		return ErrSessionNotStreaming
	}
	stream := s.stream
	s.mu.Unlock()

	s.writeMu.Lock()
	err := stream.Send(audioRequest(data))
	s.writeMu.Unlock()
	if err != nil {
		s.mu.Lock()
		if !s.state.IsTerminal() {
			s.state = StateError
		}
		s.mu.Unlock()
		s.log.WithError(err).Error("audio frame write failed")
		return NewErrorWithCause(ErrorStatusWrite, "failed to write audio frame", err)
	}
	return nil
}

// PollResult returns the buffered result and clears its slot, or false when
// no unconsumed result exists. A pending final result is returned before any
// partial. PollResult never blocks.
func (s *Session) PollResult() (Result, bool) {
	return s.results.take()
}

// Stop signals half-close: no more outbound frames. Results may still
// arrive until the remote side finishes. Stop never blocks waiting for the
// remote side, never hard-fails, and is safe to call repeatedly; a failed
// half-close is logged and Destroy obtains the definitive final status.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state != StateStreaming {
		s.mu.Unlock()
		return
	}
	s.state = StateStopping
	stream := s.stream
	s.mu.Unlock()

	s.writeMu.Lock()
	err := stream.CloseSend()
	s.writeMu.Unlock()
	if err != nil {
		s.log.WithError(err).Warn("half-close failed, stream may already be broken")
	}
}

// Destroy releases the stream, its context and the channel reference. If a
// stream is still open it is half-closed and Destroy blocks until the reader
// has drained the final status, which is logged when not OK. Destroy is
// idempotent and safe on a never-started, broken or normally-stopped
// session.
func (s *Session) Destroy() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.released = true
	state := s.state
	stream := s.stream
	cancel := s.cancel
	reader := s.reader
	s.stream = nil
	s.cancel = nil
	s.mu.Unlock()

	if stream != nil {
		switch state {
		case StateStreaming, StateStopping:
			// Healthy stream: half-close if Stop never ran, then block
			// until the reader has drained the final status.
			if state == StateStreaming {
				s.writeMu.Lock()
				if err := stream.CloseSend(); err != nil {
					s.logger().WithError(err).Debug("half-close during destroy failed")
				}
				s.writeMu.Unlock()
			}
			if reader != nil {
				<-reader
			}
			cancel()
		default:
			// Broken stream: the reader may still be parked on Recv, so
			// cancel first and then wait for it to exit.
			cancel()
			if reader != nil {
				<-reader
			}
		}
	} else if cancel != nil {
		cancel()
	}

	s.mu.Lock()
	readErr := s.readErr
	s.state = StateDone
	s.mu.Unlock()

	if readErr != nil {
		s.logger().WithError(readErr).Error("stream finished with non-ok status")
	}

	s.results.clear()
	if s.opener != nil {
		s.opener.release()
	}
	s.logger().Debug("session destroyed")
}

// readLoop is the sole consumer of the inbound side of the stream. Each
// inbound batch's top alternative lands in the result buffer. A clean end of
// stream is the expected end-of-results signal, not an error.
func (s *Session) readLoop(stream recognizeStream, done chan struct{}) {
	defer close(done)

	for {
		resp, err := stream.Recv()
		if err != nil {
			if err == io.EOF {
				return
			}
			if status.Code(err) == codes.Canceled {
				return
			}
			s.mu.Lock()
			s.readErr = err
			broken := s.state == StateStreaming
			if broken {
				s.state = StateError
			}
			s.mu.Unlock()
			if broken {
				s.log.WithError(err).Error("recognize stream terminated")
			}
			return
		}

		r, ok := extractResult(resp)
		if !ok {
			continue
		}
		if !s.results.put(r) {
			s.log.WithField("transcript", r.Transcript).
				Warn("dropping final result, previous final not yet consumed")
			continue
		}
		s.log.WithFields(logrus.Fields{
			"transcript": r.Transcript,
			"final":      r.Final,
			"stability":  r.Stability,
		}).Debug("recognized")
	}
}

// Grammar management has no equivalent in the remote service; these calls
// are accepted as no-ops so hosts driving a generic speech surface keep
// working.

func (s *Session) LoadGrammar(name, path string) error {
	s.log.WithFields(logrus.Fields{"grammar": name, "path": path}).
		Info("load grammar ignored, not supported by remote service")
	return nil
}

func (s *Session) UnloadGrammar(name string) error {
	s.log.WithField("grammar", name).Debug("unload grammar ignored")
	return nil
}

func (s *Session) ActivateGrammar(name string) error {
	s.log.WithField("grammar", name).Debug("activate grammar ignored")
	return nil
}

func (s *Session) DeactivateGrammar(name string) error {
	s.log.WithField("grammar", name).Debug("deactivate grammar ignored")
	return nil
}

// SignalDTMF accepts a DTMF digit; it is not forwarded anywhere.
func (s *Session) SignalDTMF(digit string) {
	s.log.WithField("digit", digit).Debug("dtmf ignored")
}

// Change is reserved for future engine-specific settings.
func (s *Session) Change(name, value string) error {
	return ErrUnsupportedSetting
}

// GetSetting is reserved for future engine-specific settings.
func (s *Session) GetSetting(name string) (string, error) {
	return "", ErrUnsupportedSetting
}

// ChangeResultsType is reserved; only the top alternative is consumed.
func (s *Session) ChangeResultsType(rt ResultsType) error {
	return ErrUnsupportedSetting
}
