// Package translation defines the free-text translation boundary used to
// localize catalog ingredient and recipe names, grounded on
// original_source/src/infrastructure/groq_service.rs and
// src/application/recipe_translation_service.rs. Like storage, this is a
// named external collaborator rather than a core operation (spec §1).
package translation

import "context"

// Translator translates text into a target language code ("pl", "ru", "uk").
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}
