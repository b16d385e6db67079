package whisper

import "slices"

// DefaultModel is used when neither the run nor the config names one.
const DefaultModel = "base"

// Models lists the model names the engine accepts, smallest first.
var Models = []string{
	"tiny", "tiny.en",
	"base", "base.en",
	"small", "small.en",
	"medium", "medium.en",
	"large", "large-v1", "large-v2", "large-v3",
	"turbo",
}

// ValidModel reports whether name is a supported model.
func ValidModel(name string) bool {
	return slices.Contains(Models, name)
}

// LanguageHint maps a language selector to the value passed to the engine.
// "auto" and the empty string mean detect; anything else is used verbatim.
func LanguageHint(selector string) string {
	if selector == "" || selector == "auto" {
		return ""
	}
	return selector
}
