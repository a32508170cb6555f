package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dimiro1/banner"
	"github.com/spf13/cobra"

	"github.com/expertbridge/interviewer/pkg/configutil"
	"github.com/expertbridge/interviewer/pkg/interview"
	"github.com/expertbridge/interviewer/pkg/interviewer"
	"github.com/expertbridge/interviewer/pkg/logging"
	"github.com/expertbridge/interviewer/pkg/orchestrator"
	"github.com/expertbridge/interviewer/pkg/strategy"
)

var (
	profilePath    string
	resumePath     string
	jobContextPath string
	audioOutDir    string
)

var runCmd = &cobra.Command{
	Use:   "run [recordings...]",
	Short: "Run one interview over a set of recorded answers",
	Long: `Run processes prerecorded answers through a full interview session,
one recording per turn, and prints the interviewer's replies and the final
report. Useful for batch evaluation and provider verification.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInterview(cmd.Context(), args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&profilePath, "profile", "", "path to the candidate profile JSON")
	runCmd.Flags().StringVar(&resumePath, "resume", "", "path to the candidate resume text")
	runCmd.Flags().StringVar(&jobContextPath, "job-context", "", "path to an optional job context JSON")
	runCmd.Flags().StringVar(&audioOutDir, "audio-out", "", "directory for synthesized reply audio (omit to discard)")
}

func printBanner() {
	tpl := "{{ .Title \"INTERVIEWER\" \"\" 0 }}\nVersion: " + version + "\n"
	banner.Init(os.Stdout, true, true, bytes.NewBufferString(tpl))
}

func runInterview(ctx context.Context, recordings []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := interviewer.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	logger := logging.Init(cfg.LogLevel, cfg.LogFormat)
	printBanner()

	profile, err := loadProfile(profilePath)
	if err != nil {
		return err
	}
	resumeText, err := loadOptionalFile(resumePath)
	if err != nil {
		return err
	}
	jobContext, err := loadJobContext(jobContextPath)
	if err != nil {
		return err
	}

	eng, err := interviewer.NewEngine(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer eng.Close()

	if resumeText != "" {
		topics := strategy.InitialTopics(ctx, eng.Generator(), resumeText)
		logger.Info("resume topics extracted", slog.Int("count", len(topics)))
		for _, topic := range topics {
			logger.Debug("topic", slog.String("text", topic))
		}
	}

	sess := eng.NewSession()
	opening := sess.StartInterview(profile, resumeText, jobContext)
	fmt.Printf("interviewer: %s\n\n", opening)

	for i, path := range recordings {
		audio, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read recording %s: %w", path, err)
		}
		result, err := sess.RunTurn(ctx, audio, mimeFor(path), orchestrator.TurnOptions{})
		if err != nil {
			return err
		}
		fmt.Printf("candidate:   %s\n", result.CandidateText)
		fmt.Printf("interviewer: %s\n\n", result.SpokenResponse)
		if audioOutDir != "" && len(result.Audio) > 0 {
			if err := writeReplyAudio(audioOutDir, i, result.Audio); err != nil {
				logger.Warn("writing reply audio failed", slog.String("error", err.Error()))
			}
		}
		if result.Terminate {
			logger.Info("interview terminated", slog.Int("turns_used", i+1))
			break
		}
	}

	report := sess.FinalReport()
	fmt.Printf("final score: %d/100 over %d scored answers (%.0fs elapsed)\n",
		report.AverageScore, len(report.Scores), report.Duration.Seconds())

	counts := map[string]int{}
	for _, ev := range eng.Events() {
		counts[ev.Name]++
	}
	logger.Info("session events", slog.Any("counts", counts))

	review, err := eng.NewAnalyzer().Review(ctx, sess.Session(), profile)
	if err != nil {
		logger.Warn("post-interview review failed", slog.String("error", err.Error()))
		return nil
	}
	pretty, _ := json.MarshalIndent(review, "", "  ")
	fmt.Printf("\nreview:\n%s\n", pretty)
	return nil
}

func loadProfile(path string) (interview.CandidateProfile, error) {
	var profile interview.CandidateProfile
	if path == "" {
		return profile, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read profile: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return profile, fmt.Errorf("parse profile: %w", err)
	}
	if err := configutil.DecodeSettings(fields, &profile); err != nil {
		return profile, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}

func loadOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(raw), nil
}

func loadJobContext(path string) (any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job context: %w", err)
	}
	var jobContext any
	if err := json.Unmarshal(raw, &jobContext); err != nil {
		return nil, fmt.Errorf("parse job context: %w", err)
	}
	return jobContext, nil
}

func writeReplyAudio(dir string, turn int, audio []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, fmt.Sprintf("reply_%03d.mp3", turn+1)), audio, 0o644)
}

func mimeFor(path string) string {
	switch filepath.Ext(path) {
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	default:
		return "audio/wav"
	}
}
