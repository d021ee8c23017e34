package openai

import (
	"github.com/xutq/Raycast-Easydict/pkg/api"
	"github.com/xutq/Raycast-Easydict/pkg/lang"
)

// BuildPayload constructs the wire request for one translation. The shape
// branches on the model profile:
//
//   - Dedicated translation models get the raw text as a single user message
//     plus translation_options. No sampling fields: the backend rejects them.
//   - General-purpose models get the few-shot exemplar sequence followed by
//     the templated instruction, with the fixed sampling constants attached.
//
// Streaming is enabled unless the model requires the non-streaming path.
// This is pure data shaping and cannot fail.
func BuildPayload(model string, info api.QueryWordInfo) ChatCompletionRequest {
	stream := !RequiresNonStreaming(model)

	if SupportsTranslationMode(model) {
		return ChatCompletionRequest{
			Model:    model,
			Messages: []ChatMessage{{Role: "user", Content: info.Word}},
			Stream:   stream,
			TranslationOptions: &TranslationOptions{
				SourceLang: lang.ServiceLanguage(info.FromLanguage),
				TargetLang: lang.ServiceLanguage(info.ToLanguage),
			},
		}
	}

	messages := make([]ChatMessage, 0, len(fewShotExemplars)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	messages = append(messages, fewShotExemplars...)
	messages = append(messages, ChatMessage{
		Role:    "user",
		Content: instruction(info.FromLanguage, info.ToLanguage, info.Word),
	})

	return ChatCompletionRequest{
		Model:            model,
		Messages:         messages,
		Stream:           stream,
		Temperature:      float64Ptr(promptTemperature),
		TopP:             float64Ptr(promptTopP),
		MaxTokens:        intPtr(promptMaxTokens),
		FrequencyPenalty: float64Ptr(promptFrequencyPenalty),
		PresencePenalty:  float64Ptr(promptPresencePenalty),
	}
}

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }
