// Package googlestt bridges a caller-driven stream of 16-bit linear PCM
// audio frames to the Google Cloud Speech-to-Text v1 streaming API and back
// to a simple push/poll result surface.
//
// The core object is the Session: it owns one duplex recognize stream for
// the lifetime of one utterance, sends the configuration frame first on
// every stream, writes audio frames as they are pushed, and collects
// partial and final transcripts into a buffer the caller polls at its own
// cadence. A dedicated reader goroutine consumes the inbound side, so
// PushAudio and PollResult never block on network reads.
//
// # Quick Start
//
//	cfg, err := googlestt.LoadConfig("googlestt.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine := googlestt.NewEngine(cfg)
//	defer engine.Close()
//
//	session, err := engine.Create(googlestt.Format{SampleRate: 16000})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Destroy()
//
//	if err := session.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	for chunk := range audioChunks {
//	    if err := session.PushAudio(chunk); err != nil {
//	        break
//	    }
//	    if r, ok := session.PollResult(); ok && r.Final {
//	        fmt.Println(r.Transcript)
//	    }
//	}
//	session.Stop()
//
// # Configuration
//
// LoadConfig reads a YAML file with the keys service_account_key_path,
// language_code, model and enable_automatic_punctuation. A missing file is
// not fatal; built-in defaults apply (en-US, model chosen by the service,
// punctuation off). When a key file is configured but unreadable, ambient
// default credentials are used instead.
//
// # Lifecycle and errors
//
// A session is single-utterance: once its stream breaks or it is destroyed,
// it never opens another stream. A mid-utterance write failure moves the
// session to StateError; the caller destroys it and, if desired, creates a
// new session for the next utterance. All failures surface as *Error with a
// Status from the small taxonomy in errors.go; nothing from the underlying
// transport leaks past the session's public surface.
//
// One session supports one logical caller. Wrap the whole
// Start/PushAudio/Stop/PollResult surface in a mutex if multiple goroutines
// may touch the same session.
package googlestt
