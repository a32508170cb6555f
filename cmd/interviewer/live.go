package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/expertbridge/interviewer/pkg/configutil"
	"github.com/expertbridge/interviewer/pkg/interviewer"
	"github.com/expertbridge/interviewer/pkg/logging"
	"github.com/expertbridge/interviewer/pkg/providers/deepgram"
)

var (
	liveSampleRate int
	liveEncoding   string
	liveChunkMS    int
)

// The live command verifies the streaming transcription path: it plays a raw
// audio capture into the websocket at real-time pace and prints the finalized
// segments.
var liveCmd = &cobra.Command{
	Use:   "live [raw audio file]",
	Short: "Stream a raw audio capture through live transcription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLive(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(liveCmd)
	liveCmd.Flags().IntVar(&liveSampleRate, "sample-rate", 16000, "sample rate of the capture")
	liveCmd.Flags().StringVar(&liveEncoding, "encoding", "linear16", "encoding of the capture")
	liveCmd.Flags().IntVar(&liveChunkMS, "chunk-ms", 100, "chunk duration to send per write")
}

func runLive(ctx context.Context, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := interviewer.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	var settings struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	}
	if err := configutil.DecodeSettings(cfg.Vendors.STT.Settings, &settings); err != nil {
		return err
	}
	if err := configutil.RequireString(settings.APIKey, "vendors.stt.settings.api_key"); err != nil {
		return err
	}

	transcriber := deepgram.NewLiveTranscriber(deepgram.LiveConfig{
		APIKey:     settings.APIKey,
		Model:      settings.Model,
		SampleRate: liveSampleRate,
		Encoding:   liveEncoding,
		SessionID:  "live-verify",
	})
	if err := transcriber.Start(ctx); err != nil {
		return err
	}
	defer transcriber.Close()

	go func() {
		for segment := range transcriber.Results() {
			fmt.Printf("transcript: %s\n", segment.Text)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// 2 bytes per sample for linear16.
	chunkBytes := liveSampleRate * 2 * liveChunkMS / 1000
	buf := make([]byte, chunkBytes)
	ticker := time.NewTicker(time.Duration(liveChunkMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		n, err := f.Read(buf)
		if n > 0 {
			if sendErr := transcriber.SendAudio(buf[:n]); sendErr != nil {
				return sendErr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	// Give the connection a moment to flush the tail segments.
	time.Sleep(2 * time.Second)
	return nil
}
