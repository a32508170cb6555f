package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonSTTTranscribe ReasonCode = "stt_transcribe"
	ReasonSTTConnect    ReasonCode = "stt_connect"

	ReasonTTSSynthesize ReasonCode = "tts_synthesize"
	ReasonTTSConnect    ReasonCode = "tts_connect"

	ReasonLLMGenerate  ReasonCode = "llm_generate"
	ReasonLLMExhausted ReasonCode = "llm_exhausted"
	ReasonLLMScore     ReasonCode = "llm_score"

	ReasonConfigInvalid ReasonCode = "config_invalid"
	ReasonProviderBuild ReasonCode = "provider_build"
)
