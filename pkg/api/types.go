package api

// ServiceType identifies which translation service produced a result.
type ServiceType string

const (
	// ServiceTypeOpenAI covers OpenAI and OpenAI-compatible chat completion
	// backends, including the dedicated translation model family.
	ServiceTypeOpenAI ServiceType = "openai"
)

// QueryWordInfo describes one piece of text to translate. Language fields
// carry display names ("English", "Chinese-Simplified", "Auto"), not tags;
// the lang package maps them to wire values where needed.
type QueryWordInfo struct {
	Word         string `json:"word"`
	FromLanguage string `json:"fromLanguage"`
	ToLanguage   string `json:"toLanguage"`
}

// Delta is one incremental fragment of translated text. Role is set on the
// first fragment of a response ("assistant") and empty afterwards, mirroring
// the chat-completion wire format.
type Delta struct {
	Content string `json:"content"`
	Role    string `json:"role,omitempty"`
}

// QueryResult is the uniform success outcome for a translation query.
// Streaming and non-streaming paths both produce this shape; during a
// streaming request the consumer additionally observes per-delta callbacks.
type QueryResult struct {
	Type           ServiceType   `json:"type"`
	WordInfo       QueryWordInfo `json:"queryWordInfo"`
	Translations   []string      `json:"translations"`
	TranslatedText string        `json:"translatedText"`
}

// NewQueryResult builds a QueryResult for a fully translated text.
func NewQueryResult(info QueryWordInfo, translated string) *QueryResult {
	return &QueryResult{
		Type:           ServiceTypeOpenAI,
		WordInfo:       info,
		Translations:   []string{translated},
		TranslatedText: translated,
	}
}
