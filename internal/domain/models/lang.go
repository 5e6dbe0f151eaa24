package models

// Lang is an ISO 639-1 language code for one side of a text's revision history.
type Lang string

const (
	LangEnglish Lang = "en"
	LangFrench  Lang = "fr"
)

// ParseLang validates a raw language code, falling back to English for
// anything unrecognized. Mirrors the lenient handling of URL language
// segments at the web boundary.
func ParseLang(raw string) Lang {
	switch raw {
	case "fr":
		return LangFrench
	case "en":
		return LangEnglish
	default:
		return LangEnglish
	}
}

func (l Lang) String() string {
	return string(l)
}
