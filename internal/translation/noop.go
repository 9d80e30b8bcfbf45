package translation

import "context"

// NoopTranslator returns the input unchanged. Used when no Groq API key is
// configured (local development, tests) so the catalog/recipe name
// localization path still has a Translator to call.
type NoopTranslator struct{}

func (NoopTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	return text, nil
}
