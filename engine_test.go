package googlestt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(opener *fakeOpener) *Engine {
	// Mirror newChannel: the engine holds the initial reference.
	opener.acquire()
	engine := NewEngine(Config{}, WithLogger(testLogger()))
	engine.mu.Lock()
	engine.opener = opener
	engine.mu.Unlock()
	return engine
}

func TestCreateDefaultsSampleRate(t *testing.T) {
	engine := newTestEngine(&fakeOpener{})
	defer engine.Close()

	s, err := engine.Create(Format{})
	require.NoError(t, err)
	defer s.Destroy()
	assert.Equal(t, DefaultSampleRate, s.cfg.SampleRate)

	s2, err := engine.Create(Format{SampleRate: -8000})
	require.NoError(t, err)
	defer s2.Destroy()
	assert.Equal(t, DefaultSampleRate, s2.cfg.SampleRate)

	s3, err := engine.Create(Format{SampleRate: 8000})
	require.NoError(t, err)
	defer s3.Destroy()
	assert.Equal(t, 8000, s3.cfg.SampleRate)
}

func TestCreateCopiesConfigSnapshot(t *testing.T) {
	cfg := Config{LanguageCode: "fr-FR", Model: "phone_call", EnableAutomaticPunctuation: true}
	engine := NewEngine(cfg, WithLogger(testLogger()))
	engine.mu.Lock()
	engine.opener = &fakeOpener{}
	engine.mu.Unlock()
	defer engine.Close()

	s, err := engine.Create(Format{SampleRate: 16000})
	require.NoError(t, err)
	defer s.Destroy()

	assert.Equal(t, "fr-FR", s.cfg.LanguageCode)
	assert.Equal(t, "phone_call", s.cfg.Model)
	assert.True(t, s.cfg.EnableAutomaticPunctuation)

	// Mutating the caller's copy after construction changes nothing.
	cfg.LanguageCode = "de-DE"
	assert.Equal(t, "fr-FR", engine.Config().LanguageCode)
}

func TestCreateNamesSessions(t *testing.T) {
	engine := newTestEngine(&fakeOpener{})
	defer engine.Close()

	a, err := engine.Create(Format{SampleRate: 16000})
	require.NoError(t, err)
	defer a.Destroy()
	b, err := engine.Create(Format{SampleRate: 16000})
	require.NoError(t, err)
	defer b.Destroy()

	assert.NotEqual(t, a.Name(), b.Name())
	assert.Contains(t, a.Name(), "google-")
}

func TestCreateAfterClose(t *testing.T) {
	engine := newTestEngine(&fakeOpener{})
	require.NoError(t, engine.Close())
	require.NoError(t, engine.Close())

	_, err := engine.Create(Format{SampleRate: 16000})
	require.Error(t, err)
	assert.True(t, IsErrorStatus(err, ErrorStatusInvalidState))
}

func TestGrammarCallsAreAcceptedNoOps(t *testing.T) {
	engine := newTestEngine(&fakeOpener{})
	defer engine.Close()

	s, err := engine.Create(Format{SampleRate: 16000})
	require.NoError(t, err)
	defer s.Destroy()

	assert.NoError(t, s.LoadGrammar("digits", "/etc/grammars/digits.gram"))
	assert.NoError(t, s.ActivateGrammar("digits"))
	assert.NoError(t, s.DeactivateGrammar("digits"))
	assert.NoError(t, s.UnloadGrammar("digits"))
	s.SignalDTMF("5")
}

func TestSettingsCallsAreUnsupported(t *testing.T) {
	engine := newTestEngine(&fakeOpener{})
	defer engine.Close()

	s, err := engine.Create(Format{SampleRate: 16000})
	require.NoError(t, err)
	defer s.Destroy()

	assert.ErrorIs(t, s.Change("language", "fr-FR"), ErrUnsupportedSetting)
	_, err = s.GetSetting("language")
	assert.ErrorIs(t, err, ErrUnsupportedSetting)
	assert.ErrorIs(t, s.ChangeResultsType(ResultsTypeNBest), ErrUnsupportedSetting)
}

func TestSessionsShareOneChannel(t *testing.T) {
	opener := &fakeOpener{}
	engine := newTestEngine(opener)

	a, err := engine.Create(Format{SampleRate: 16000})
	require.NoError(t, err)
	b, err := engine.Create(Format{SampleRate: 16000})
	require.NoError(t, err)

	require.NoError(t, a.Start(context.Background()))
	require.NoError(t, b.Start(context.Background()))
	assert.Len(t, opener.streams, 2)

	// Each destroyed session and the closed engine give back one
	// reference; nothing is left holding the channel.
	a.Destroy()
	b.Destroy()
	engine.Close()
	assert.Equal(t, 0, opener.refCount())
}
