package googlestt

import (
	"context"
	"errors"
	"os"
	"sync/atomic"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// recognizeStream is the duplex stream a session owns for one utterance.
// It is the subset of speechpb.Speech_StreamingRecognizeClient the core
// needs, so tests can substitute a double.
type recognizeStream interface {
	Send(*speechpb.StreamingRecognizeRequest) error
	Recv() (*speechpb.StreamingRecognizeResponse, error)
	CloseSend() error
}

// streamOpener produces duplex streams and tracks shared ownership of the
// underlying transport. One opener may back many sessions; each session
// acquires a reference at creation and releases it on destroy.
type streamOpener interface {
	openStream(ctx context.Context) (recognizeStream, error)
	acquire()
	release()
}

// channel wraps a shared speech client. It is never mutated after
// construction; the client closes when the last reference is released.
type channel struct {
	client *speech.Client
	refs   atomic.Int32
}

// resolveClientOptions turns the configuration snapshot into client options.
// A configured key file that cannot be read, or is empty, logs a warning and
// falls back to ambient default credentials rather than failing outright.
func resolveClientOptions(cfg Config, log *logrus.Entry) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.Endpoint != "" && cfg.Endpoint != DefaultEndpoint {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.ServiceAccountKeyPath != "" {
		key, err := readKeyFile(cfg.ServiceAccountKeyPath)
		if err != nil {
			log.WithError(err).WithField("path", cfg.ServiceAccountKeyPath).
				Warn("failed to read service account key, falling back to default credentials")
		} else {
			log.WithField("path", cfg.ServiceAccountKeyPath).Debug("using service account key")
			opts = append(opts, option.WithCredentialsJSON(key))
		}
	}
	return opts
}

// newChannel resolves credentials and constructs the client against the
// configured endpoint. Failure here is fatal to session creation and is not
// retried internally; the caller may retry creation.
func newChannel(ctx context.Context, cfg Config, log *logrus.Entry) (*channel, error) {
	client, err := speech.NewClient(ctx, resolveClientOptions(cfg, log)...)
	if err != nil {
		return nil, NewErrorWithCause(ErrorStatusCredential, "no usable credentials for speech client", err)
	}
	c := &channel{client: client}
	c.refs.Store(1)
	return c, nil
}

func (c *channel) openStream(ctx context.Context) (recognizeStream, error) {
	stream, err := c.client.StreamingRecognize(ctx)
	if err != nil {
		return nil, NewErrorWithCause(ErrorStatusChannel, "failed to open recognize stream", err)
	}
	return stream, nil
}

func readKeyFile(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, errors.New("key file is empty")
	}
	return key, nil
}

func (c *channel) acquire() {
	c.refs.Add(1)
}

func (c *channel) release() {
	if c.refs.Add(-1) == 0 {
		c.client.Close()
	}
}
