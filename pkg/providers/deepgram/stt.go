// Package deepgram implements the speech ports against the Deepgram API:
// prerecorded transcription and Aura synthesis over HTTP, plus a websocket
// streaming transcriber for live capture.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/expertbridge/interviewer/pkg/adapters/stt"
	"github.com/expertbridge/interviewer/pkg/errorsx"
	"github.com/expertbridge/interviewer/pkg/resilience"
)

const (
	listenEndpoint = "https://api.deepgram.com/v1/listen"
	defaultModel   = "nova-2"

	// Recordings below this size are treated as silence and skipped
	// without an API call.
	minAudioBytes = 100
)

// Config holds the settings shared by the Deepgram providers.
type Config struct {
	APIKey string
	Model  string
}

// Transcriber posts one recorded answer per turn to the prerecorded
// transcription endpoint.
type Transcriber struct {
	cfg    Config
	client *http.Client
	retry  resilience.RetryPolicy
}

func NewTranscriber(cfg Config) (*Transcriber, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errorsx.Wrap(fmt.Errorf("deepgram: api key is required"), errorsx.ReasonConfigInvalid)
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &Transcriber{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		retry:  resilience.NewRetryPolicy(2, 300*time.Millisecond),
	}, nil
}

func (t *Transcriber) Name() string { return "deepgram" }

// Transcribe sends the recording and returns the top alternative transcript.
// Sub-threshold audio and unintelligible speech come back as an empty
// transcription, not an error.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (stt.Transcription, error) {
	if len(audio) < minAudioBytes {
		return stt.Transcription{}, nil
	}
	if mimeType == "" {
		mimeType = "audio/wav"
	}

	q := url.Values{}
	q.Set("model", t.cfg.Model)
	q.Set("smart_format", "true")
	q.Set("detect_language", "true")
	endpoint := listenEndpoint + "?" + q.Encode()

	var payload struct {
		Results struct {
			Channels []struct {
				DetectedLanguage string `json:"detected_language"`
				Alternatives     []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}

	err := t.retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Token "+t.cfg.APIKey)
		req.Header.Set("Content-Type", mimeType)

		resp, err := t.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("deepgram: listen status %d: %s", resp.StatusCode, string(raw))
		}
		return json.Unmarshal(raw, &payload)
	})
	if err != nil {
		return stt.Transcription{}, errorsx.Wrap(err, errorsx.ReasonSTTTranscribe)
	}

	if len(payload.Results.Channels) == 0 || len(payload.Results.Channels[0].Alternatives) == 0 {
		return stt.Transcription{}, nil
	}
	channel := payload.Results.Channels[0]
	return stt.Transcription{
		Text:     strings.TrimSpace(channel.Alternatives[0].Transcript),
		Language: channel.DetectedLanguage,
	}, nil
}

var _ stt.Transcriber = (*Transcriber)(nil)
