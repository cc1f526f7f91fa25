package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "missing_field":
			msg = "必須フィールドが不足しています"
		case "type_mismatch":
			msg = "値の形式が不正です"
		case "malformed_date":
			msg = "日付の形式が不正です"
		case "transform_error":
			msg = "数値の変換に失敗しました"
		case "depth_exceeded":
			msg = "入れ子が深すぎます"
		case "unknown_top_level_shape":
			msg = "ルートがオブジェクトではありません"
		case "duplicate_key":
			msg = "キーが重複しています"
		case "parse_error":
			msg = "解析エラー"
		case "truncated":
			msg = "打ち切られました"
		case "canceled":
			msg = "キャンセルされました"
		}
	default: // "en"
		switch code {
		case "missing_field":
			msg = "required field missing"
		case "type_mismatch":
			msg = "value does not match the expected type"
		case "malformed_date":
			msg = "malformed date"
		case "transform_error":
			msg = "reencoding transform rejected the value"
		case "depth_exceeded":
			msg = "max depth exceeded"
		case "unknown_top_level_shape":
			msg = "root node is not an object"
		case "duplicate_key":
			msg = "duplicate key"
		case "parse_error":
			msg = "parse error"
		case "truncated":
			msg = "truncated"
		case "canceled":
			msg = "decode canceled"
		}
	}
	if msg == "" {
		return code
	}
	if exp := data["expected"]; exp != "" {
		msg += " (expected " + exp + ")"
	}
	if got := data["got"]; got != "" {
		msg += ": " + quote(got)
	}
	return msg
}

func quote(s string) string {
	const max = 40
	if len(s) > max {
		s = s[:max] + "..."
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

type holder struct{ tr Translator }

var currentTranslator atomic.Pointer[holder]

func init() { currentTranslator.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator.Store(&holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	currentTranslator.Store(&holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return currentTranslator.Load().tr.Message(code, data)
}
