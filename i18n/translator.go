package i18n

import "strings"

// Translator retrieves localized messages for error type tags.
// data provides optional values interpolated into %{key} placeholders (for
// example "type" or "count").
type Translator interface {
	Message(typ string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":             "is not a valid %{type}",
		"blank":                    "can't be blank",
		"too_short":                "is too short (minimum is %{count} characters)",
		"too_long":                 "is too long (maximum is %{count} characters)",
		"greater_than_or_equal_to": "must be greater than or equal to %{count}",
		"less_than_or_equal_to":    "must be less than or equal to %{count}",
		"greater_than":             "must be greater than %{count}",
		"less_than":                "must be less than %{count}",
		"not_multiple_of":          "must be a multiple of %{count}",
		"inclusion":                "is not included in the list",
		"equal_to":                 "must be equal to %{value}",
		"invalid":                  "is invalid",
		"too_few_items":            "has too few items (minimum is %{count})",
		"too_many_items":           "has too many items (maximum is %{count})",
		"not_unique":               "must contain unique items",
		"additional_items":         "is not allowed",
		"unknown_key":              "is not a permitted attribute",
		"no_match":                 "does not match any allowed schema",
		"ambiguous_match":          "matches more than one schema",
	},
	"ja": {
		"invalid_type":     "は有効な%{type}ではありません",
		"blank":            "を入力してください",
		"too_short":        "は%{count}文字以上で入力してください",
		"too_long":         "は%{count}文字以内で入力してください",
		"inclusion":        "は一覧にありません",
		"invalid":          "は不正な値です",
		"not_unique":       "は重複しない要素で構成してください",
		"additional_items": "は許可されていません",
		"unknown_key":      "は許可されていない属性です",
	},
}

func (t dictTranslator) Message(typ string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][typ]
	if !ok {
		msg, ok = dictionaries["en"][typ]
	}
	if !ok {
		return typ
	}
	return interpolate(msg, data)
}

func interpolate(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "%{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "%{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given type tag using the current Translator.
func T(typ string, data map[string]string) string { return currentTranslator.Message(typ, data) }
