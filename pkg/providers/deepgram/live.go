package deepgram

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	msginterfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/websocket/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/expertbridge/interviewer/pkg/adapters/stt"
	"github.com/expertbridge/interviewer/pkg/logging"
)

// LiveConfig configures the websocket streaming transcriber, used by
// deployments that capture microphone audio continuously instead of posting
// one recording per turn.
type LiveConfig struct {
	APIKey     string
	Model      string
	Language   string
	SampleRate int
	Encoding   string
	SessionID  string
}

// LiveTranscriber streams captured audio to Deepgram over a websocket and
// delivers finalized transcript segments on Results.
type LiveTranscriber struct {
	cfg        LiveConfig
	dgClient   *client.WSCallback
	out        chan stt.Transcription
	ctx        context.Context
	cancel     context.CancelFunc
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	metaLogged bool
	logger     *slog.Logger
}

func NewLiveTranscriber(cfg LiveConfig) *LiveTranscriber {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &LiveTranscriber{
		cfg:    cfg,
		out:    make(chan stt.Transcription, 64),
		logger: logging.NewComponentLogger(slog.Default(), "deepgram_live"),
	}
}

func (s *LiveTranscriber) Name() string { return "deepgram_streaming" }

func (s *LiveTranscriber) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.pipeReader, s.pipeWriter = io.Pipe()

	clientOptions := &interfaces.ClientOptions{
		EnableKeepAlive: true,
	}
	transcriptOptions := &interfaces.LiveTranscriptionOptions{
		Model:          s.cfg.Model,
		Language:       s.cfg.Language,
		Encoding:       s.cfg.Encoding,
		SampleRate:     s.cfg.SampleRate,
		InterimResults: false,
		SmartFormat:    true,
	}

	s.logger.Info("initializing deepgram connection",
		slog.String("session_id", s.cfg.SessionID),
		slog.String("model", s.cfg.Model),
		slog.Int("sample_rate", s.cfg.SampleRate))

	dgClient, err := client.NewWSUsingCallback(s.ctx, s.cfg.APIKey, clientOptions, transcriptOptions, &liveCallback{parent: s})
	if err != nil {
		s.logger.Error("deepgram client create error",
			slog.String("error", err.Error()),
			slog.String("session_id", s.cfg.SessionID))
		return err
	}
	s.dgClient = dgClient

	if connected := s.dgClient.Connect(); !connected {
		s.logger.Error("deepgram connect failed",
			slog.String("session_id", s.cfg.SessionID))
		return fmt.Errorf("deepgram connection failed")
	}

	go func() {
		if err := s.dgClient.Stream(s.pipeReader); err != nil && s.ctx.Err() == nil {
			s.logger.Error("deepgram stream error",
				slog.String("error", err.Error()),
				slog.String("session_id", s.cfg.SessionID))
		}
	}()

	return nil
}

func (s *LiveTranscriber) Close() error {
	s.logger.Info("closing deepgram connection",
		slog.String("session_id", s.cfg.SessionID))
	if s.cancel != nil {
		s.cancel()
	}
	if s.pipeWriter != nil {
		_ = s.pipeWriter.Close()
	}
	if s.dgClient != nil {
		s.dgClient.Stop()
	}
	return nil
}

func (s *LiveTranscriber) SendAudio(chunk []byte) error {
	if s.pipeWriter == nil {
		return fmt.Errorf("not started")
	}
	_, err := s.pipeWriter.Write(chunk)
	if err != nil {
		s.logger.Error("failed to send audio to deepgram",
			slog.String("error", err.Error()),
			slog.String("session_id", s.cfg.SessionID))
	}
	return err
}

func (s *LiveTranscriber) Results() <-chan stt.Transcription { return s.out }

type liveCallback struct {
	parent *LiveTranscriber
}

func (c *liveCallback) Open(or *msginterfaces.OpenResponse) error {
	c.parent.logger.Info("deepgram connection opened",
		slog.String("session_id", c.parent.cfg.SessionID))
	return nil
}

// Message delivers finalized segments only. Interim results are disabled at
// connect time; final segments feed per-turn answers downstream.
func (c *liveCallback) Message(mr *msginterfaces.MessageResponse) error {
	if len(mr.Channel.Alternatives) == 0 {
		return nil
	}
	transcript := mr.Channel.Alternatives[0].Transcript
	if transcript == "" {
		return nil
	}
	if !mr.IsFinal && !mr.SpeechFinal {
		return nil
	}

	c.parent.logger.Debug("transcript received",
		slog.String("session_id", c.parent.cfg.SessionID),
		slog.Int("chars", len(transcript)))

	select {
	case c.parent.out <- stt.Transcription{Text: transcript, Language: c.parent.cfg.Language}:
	default:
		c.parent.logger.Warn("transcript channel full, segment dropped",
			slog.String("session_id", c.parent.cfg.SessionID))
	}
	return nil
}

func (c *liveCallback) Metadata(md *msginterfaces.MetadataResponse) error {
	if !c.parent.metaLogged {
		c.parent.metaLogged = true
		c.parent.logger.Info("deepgram metadata received",
			slog.String("session_id", c.parent.cfg.SessionID),
			slog.String("request_id", md.RequestID))
	}
	return nil
}

func (c *liveCallback) SpeechStarted(ssr *msginterfaces.SpeechStartedResponse) error {
	c.parent.logger.Debug("speech started",
		slog.String("session_id", c.parent.cfg.SessionID))
	return nil
}

func (c *liveCallback) UtteranceEnd(ur *msginterfaces.UtteranceEndResponse) error {
	c.parent.logger.Debug("utterance end",
		slog.String("session_id", c.parent.cfg.SessionID))
	return nil
}

func (c *liveCallback) Close(cr *msginterfaces.CloseResponse) error {
	c.parent.logger.Info("deepgram connection closed",
		slog.String("session_id", c.parent.cfg.SessionID))
	return nil
}

func (c *liveCallback) Error(er *msginterfaces.ErrorResponse) error {
	c.parent.logger.Error("deepgram error",
		slog.String("session_id", c.parent.cfg.SessionID),
		slog.String("error_code", er.ErrCode),
		slog.String("error_message", er.ErrMsg))
	return nil
}

func (c *liveCallback) UnhandledEvent(byData []byte) error {
	c.parent.logger.Debug("deepgram unhandled event",
		slog.String("session_id", c.parent.cfg.SessionID),
		slog.Int("bytes", len(byData)))
	return nil
}

var _ stt.StreamingTranscriber = (*LiveTranscriber)(nil)
