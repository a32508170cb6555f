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

	"github.com/expertbridge/interviewer/pkg/adapters/tts"
	"github.com/expertbridge/interviewer/pkg/errorsx"
)

const (
	speakEndpoint = "https://api.deepgram.com/v1/speak"
	defaultVoice  = "aura-asteria-en"
)

// Synthesizer renders interviewer replies with Deepgram Aura voices.
type Synthesizer struct {
	cfg    Config
	client *http.Client
}

func NewSynthesizer(cfg Config) (*Synthesizer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errorsx.Wrap(fmt.Errorf("deepgram: api key is required"), errorsx.ReasonConfigInvalid)
	}
	return &Synthesizer{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (s *Synthesizer) Name() string { return "deepgram_aura" }

// Synthesize renders text with the given Aura voice and returns the audio
// bytes. The voice doubles as the Aura model name.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errorsx.Wrap(fmt.Errorf("deepgram: empty text"), errorsx.ReasonTTSSynthesize)
	}
	if strings.TrimSpace(voice) == "" {
		voice = defaultVoice
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}

	q := url.Values{}
	q.Set("model", voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, speakEndpoint+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	req.Header.Set("Authorization", "Token "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSConnect)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errorsx.Wrap(fmt.Errorf("deepgram: speak status %d: %s", resp.StatusCode, string(raw)), errorsx.ReasonTTSSynthesize)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	return audio, nil
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
