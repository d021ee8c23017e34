package openai

import "fmt"

// Few-shot prompt for general-purpose chat models. The exemplar pairs teach
// tone and fidelity by example; the system message pins the engine role so
// the model does not explain or editorialize.

const systemPrompt = "You are a translate engine, translate directly without explanation."

// fewShotExemplars alternate user instruction and assistant reply. They are
// sent verbatim before the final instruction on every general-model request.
var fewShotExemplars = []ChatMessage{
	{Role: "user", Content: instruction("English", "Chinese-Simplified", "Hello, world!")},
	{Role: "assistant", Content: "你好，世界！"},
	{Role: "user", Content: instruction("Chinese-Simplified", "English", "再见")},
	{Role: "assistant", Content: "Goodbye"},
	{Role: "user", Content: instruction("English", "French", "How are you today?")},
	{Role: "assistant", Content: "Comment allez-vous aujourd'hui ?"},
}

// instruction renders the templated final user message for one translation.
// The triple quotes fence the text so embedded newlines or quotes do not
// read as part of the instruction.
func instruction(from, to, text string) string {
	return fmt.Sprintf(`translate the following %s word or text to %s: """%s"""`, from, to, text)
}

// Sampling constants for general-purpose models. Hand-tuned for translation:
// deterministic output, full top-p mass, symmetric penalties to discourage
// repetition. Not user-configurable.
const (
	promptTemperature      = 0.0
	promptTopP             = 1.0
	promptMaxTokens        = 2000
	promptFrequencyPenalty = 1.0
	promptPresencePenalty  = 1.0
)
