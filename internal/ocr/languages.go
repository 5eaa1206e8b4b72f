package ocr

import (
	"fmt"
	"regexp"
	"strings"
)

// Language is one entry of the language menu.
type Language struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// AutoLanguage is the menu value that resolves to DefaultLanguage.
const AutoLanguage = "auto"

var languages = []Language{
	{Code: AutoLanguage, Label: "auto (eng)"},
	{Code: "spa", Label: "Español (spa)"},
	{Code: "eng", Label: "English (eng)"},
	{Code: "por", Label: "Português (por)"},
	{Code: "fra", Label: "Français (fra)"},
}

// Languages returns the language menu in display order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

var langSegment = regexp.MustCompile(`^[a-z_]{3,}$`)

// ResolveLanguage maps a menu value or label to a tesseract language code.
// "auto", an empty string and "auto (eng)" resolve to DefaultLanguage;
// labels such as "Español (spa)" resolve to the code in parentheses. Other
// values are returned trimmed and lower-cased.
func ResolveLanguage(v string) string {
	v = strings.TrimSpace(v)
	for _, l := range languages {
		if strings.EqualFold(v, l.Label) {
			v = l.Code
			break
		}
	}
	v = strings.ToLower(v)
	if v == "" || v == AutoLanguage {
		return DefaultLanguage
	}
	return v
}

// ValidateLanguage checks a code or "+"-joined list of codes and returns it
// normalized. Each segment must be at least three characters from [a-z_].
func ValidateLanguage(code string) (string, error) {
	code = ResolveLanguage(code)
	for _, seg := range strings.Split(code, "+") {
		if !langSegment.MatchString(seg) {
			return "", fmt.Errorf("invalid language code %q", code)
		}
	}
	return code, nil
}
