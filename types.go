package googlestt

import (
	"sync"

	"cloud.google.com/go/speech/apiv1/speechpb"
)

// DefaultConfidence is reported for a result whose upstream alternative
// carries no confidence score (interim results typically do not).
const DefaultConfidence float32 = 1.0

// Format carries the audio format hint supplied by the host engine at
// session creation. A zero or negative sample rate falls back to
// DefaultSampleRate.
type Format struct {
	SampleRate int
}

// Result is one recognized segment. Transcript ownership transfers to the
// caller on PollResult; the same result is never returned twice.
type Result struct {
	Transcript string
	Confidence float32
	Stability  float32
	Final      bool
}

// ResultsType mirrors the host engine's result-type selector. The remote
// service has no equivalent; ChangeResultsType always reports unsupported.
type ResultsType string

const (
	ResultsTypeNormal ResultsType = "normal"
	ResultsTypeNBest  ResultsType = "nbest"
)

// configRequest builds the one-time configuration frame. The model is
// omitted when it equals the "default" sentinel; interim results are always
// requested.
func configRequest(cfg SessionConfig) *speechpb.StreamingRecognizeRequest {
	rc := &speechpb.RecognitionConfig{
		Encoding:                   speechpb.RecognitionConfig_LINEAR16,
		SampleRateHertz:            int32(cfg.SampleRate),
		LanguageCode:               cfg.LanguageCode,
		EnableAutomaticPunctuation: cfg.EnableAutomaticPunctuation,
	}
	if cfg.Model != "" && cfg.Model != DefaultModel {
		rc.Model = cfg.Model
	}
	return &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config:         rc,
				InterimResults: true,
			},
		},
	}
}

// audioRequest wraps raw 16-bit linear PCM bytes as one audio-content frame.
func audioRequest(data []byte) *speechpb.StreamingRecognizeRequest {
	return &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: data,
		},
	}
}

// extractResult takes the first entry's first alternative from a result
// batch. Batches with no entries, no alternatives or an empty transcript
// yield nothing.
func extractResult(resp *speechpb.StreamingRecognizeResponse) (Result, bool) {
	if resp == nil || len(resp.Results) == 0 {
		return Result{}, false
	}
	entry := resp.Results[0]
	if len(entry.Alternatives) == 0 {
		return Result{}, false
	}
	alt := entry.Alternatives[0]
	if alt.Transcript == "" {
		return Result{}, false
	}
	r := Result{
		Transcript: alt.Transcript,
		Confidence: alt.Confidence,
		Stability:  entry.Stability,
		Final:      entry.IsFinal,
	}
	if r.Confidence == 0 {
		r.Confidence = DefaultConfidence
	}
	return r, true
}

// resultBuffer holds the not-yet-consumed results of one session. The final
// slot refuses overwrite until consumed so a final transcript cannot be
// clobbered by a later write cycle; the partial slot always holds the latest
// revisable segment.
type resultBuffer struct {
	mu      sync.Mutex
	partial *Result
	final   *Result
}

// put stores a result. It returns false when a final result had to be
// dropped because an earlier final is still unconsumed.
func (b *resultBuffer) put(r Result) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.Final {
		if b.final != nil {
			return false
		}
		b.final = &r
		b.partial = nil
		return true
	}
	b.partial = &r
	return true
}

// take transfers the current result to the caller, preferring a pending
// final over a partial. It never blocks.
func (b *resultBuffer) take() (Result, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.final != nil {
		r := *b.final
		b.final = nil
		return r, true
	}
	if b.partial != nil {
		r := *b.partial
		b.partial = nil
		return r, true
	}
	return Result{}, false
}

func (b *resultBuffer) clear() {
	b.mu.Lock()
	b.partial = nil
	b.final = nil
	b.mu.Unlock()
}
