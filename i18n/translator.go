// Package i18n holds the message catalog for Issue codes.
package i18n

import "sync"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "got").
type Translator interface {
	Message(code string, data map[string]string) string
}

var catalogs = map[string]map[string]string{
	"en": {
		"invalid_type":          "invalid type",
		"required":              "required property missing",
		"invalid_format":        "invalid format",
		"invalid_union":         "value matches none of the allowed shapes",
		"discriminator_missing": "content type missing",
		"discriminator_unknown": "unknown content type",
		"parse_error":           "parse error",
	},
	"ja": {
		"invalid_type":          "型が不正です",
		"required":              "必須プロパティが不足しています",
		"invalid_format":        "形式が不正です",
		"invalid_union":         "許可されたいずれの形にも一致しません",
		"discriminator_missing": "コンテンツ種別がありません",
		"discriminator_unknown": "未知のコンテンツ種別です",
		"parse_error":           "解析エラー",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := catalogs[t.lang][code]
	if !ok {
		return code
	}
	if exp := data["expected"]; exp != "" {
		if t.lang == "ja" {
			return msg + " (期待値: " + exp + ")"
		}
		return msg + " (expected " + exp + ")"
	}
	return msg
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := catalogs[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
