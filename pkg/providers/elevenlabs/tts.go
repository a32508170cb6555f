// Package elevenlabs implements the synthesis port over the ElevenLabs
// stream-input websocket, collected into one audio buffer per reply.
package elevenlabs

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/expertbridge/interviewer/pkg/adapters/tts"
	"github.com/expertbridge/interviewer/pkg/errorsx"
	"github.com/expertbridge/interviewer/pkg/logging"
)

const wsBase = "wss://api.elevenlabs.io/v1/text-to-speech"

// Config holds the ElevenLabs connection settings. The voice argument to
// Synthesize overrides VoiceID when non-empty.
type Config struct {
	APIKey       string
	VoiceID      string
	ModelID      string
	OutputFormat string
}

// Synthesizer renders one reply per websocket session: connect, send the
// text, collect audio chunks until the final marker, disconnect.
type Synthesizer struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config) (*Synthesizer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errorsx.Wrap(errors.New("elevenlabs: api key is required"), errorsx.ReasonConfigInvalid)
	}
	return &Synthesizer{
		cfg:    cfg,
		logger: logging.NewComponentLogger(slog.Default(), "elevenlabs_tts"),
	}, nil
}

func (s *Synthesizer) Name() string { return "elevenlabs" }

func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errorsx.Wrap(errors.New("elevenlabs: empty text"), errorsx.ReasonTTSSynthesize)
	}
	voiceID := s.cfg.VoiceID
	if strings.TrimSpace(voice) != "" {
		voiceID = voice
	}
	if voiceID == "" {
		return nil, errorsx.Wrap(errors.New("elevenlabs: voice id is required"), errorsx.ReasonConfigInvalid)
	}

	dialer := websocket.Dialer{Proxy: http.ProxyFromEnvironment}
	conn, resp, err := dialer.DialContext(ctx, s.buildURL(voiceID), http.Header{
		"xi-api-key": []string{s.cfg.APIKey},
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			return nil, errorsx.Wrap(fmt.Errorf("elevenlabs: rate limited: %s", resp.Status), errorsx.ReasonTTSConnect)
		}
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSConnect)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	} else {
		_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		_ = conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
	}

	init := map[string]any{
		"text": " ",
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.8,
		},
	}
	if err := conn.WriteJSON(init); err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	if !strings.HasSuffix(text, " ") {
		text += " "
	}
	if err := conn.WriteJSON(map[string]any{"text": text, "try_trigger_generation": true}); err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	// Empty text closes the input stream and flushes remaining audio.
	if err := conn.WriteJSON(map[string]any{"text": ""}); err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}

	var audio []byte
	for {
		var msg struct {
			Audio   string `json:"audio"`
			IsFinal bool   `json:"isFinal"`
			Error   string `json:"error"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) && len(audio) > 0 {
				return audio, nil
			}
			return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
		}
		if msg.Error != "" {
			return nil, errorsx.Wrap(fmt.Errorf("elevenlabs: %s", msg.Error), errorsx.ReasonTTSSynthesize)
		}
		if msg.Audio != "" {
			raw, err := base64.StdEncoding.DecodeString(msg.Audio)
			if err != nil {
				return nil, errorsx.Wrap(fmt.Errorf("elevenlabs: audio decode: %w", err), errorsx.ReasonTTSSynthesize)
			}
			audio = append(audio, raw...)
		}
		if msg.IsFinal {
			break
		}
	}

	s.logger.Debug("synthesis completed",
		slog.String("voice_id", voiceID),
		slog.Int("chars", len(text)),
		slog.Int("audio_bytes", len(audio)))
	return audio, nil
}

func (s *Synthesizer) buildURL(voiceID string) string {
	q := url.Values{}
	if s.cfg.ModelID != "" {
		q.Set("model_id", s.cfg.ModelID)
	}
	if s.cfg.OutputFormat != "" {
		q.Set("output_format", s.cfg.OutputFormat)
	}
	q.Set("optimize_streaming_latency", "4")
	return wsBase + "/" + voiceID + "/stream-input?" + q.Encode()
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
