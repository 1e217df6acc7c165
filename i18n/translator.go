package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional parameters to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

type entry struct {
	short    string // used when data lacks a placeholder
	template string // {name} placeholders are replaced from data
}

var dictionaries = map[string]map[string]entry{
	"en": {
		"invalid_type":   {"invalid type", "expected {expected}, got {actual}"},
		"required":       {"required property missing", "required property {field} is missing"},
		"invalid_format": {"invalid format", "value does not match format {format}"},
		"out_of_range":   {"out of range", "value {got} is out of range (limit {limit})"},
		"pattern":        {"pattern mismatch", "value does not match pattern {pattern}"},
		"unknown_key":    {"unknown key", "unknown key {key}"},
		"uniqueness":     {"duplicate items", "items {first} and {second} are equal"},
		"min_items":      {"too few items", "expected at least {min} items, got {got}"},
		"max_items":      {"too many items", "expected at most {max} items, got {got}"},
		"contains":       {"contains not satisfied", "{matched} items match contains"},
		"min_length":     {"too short", "expected length >= {min}, got {got}"},
		"max_length":     {"too long", "expected length <= {max}, got {got}"},
		"min_properties": {"too few properties", "expected at least {min} properties, got {got}"},
		"max_properties": {"too many properties", "expected at most {max} properties, got {got}"},
		"multiple_of":    {"not a multiple", "value {got} is not a multiple of {multipleOf}"},
		"composition":    {"composition failed", "{combinator} failed: {matched} branches matched"},
		"reference":      {"unresolvable reference", "reference {pointer}: {reason}"},
		"invalid_enum":   {"value not allowed", "value must be one of {allowed}"},
		"invalid_const":  {"value not allowed", "value must equal {const}"},
		"parse_error":    {"parse error", "parse error: {detail}"},
		"duplicate_key":  {"duplicate key", "duplicate key {key}"},
		"truncated":      {"truncated", "input truncated: {detail}"},
		"unevaluated":    {"item not allowed", "item {index} is not covered by prefixItems, items or contains"},
	},
	"ja": {
		"invalid_type":   {"型が不正です", "{expected} を期待しましたが {actual} でした"},
		"required":       {"必須プロパティが不足しています", "必須プロパティ {field} がありません"},
		"invalid_format": {"形式が不正です", "形式 {format} に一致しません"},
		"out_of_range":   {"範囲外です", "値 {got} は範囲外です (境界 {limit})"},
		"pattern":        {"パターンに一致しません", "パターン {pattern} に一致しません"},
		"unknown_key":    {"未知のキーです", "未知のキー {key} です"},
		"uniqueness":     {"要素が重複しています", "要素 {first} と {second} が等しいです"},
		"min_items":      {"要素が少なすぎます", "要素数は {min} 以上が必要です ({got})"},
		"max_items":      {"要素が多すぎます", "要素数は {max} 以下が必要です ({got})"},
		"contains":       {"contains を満たしません", "contains に一致する要素は {matched} 個です"},
		"min_length":     {"短すぎます", "長さは {min} 以上が必要です ({got})"},
		"max_length":     {"長すぎます", "長さは {max} 以下が必要です ({got})"},
		"min_properties": {"プロパティが少なすぎます", "プロパティ数は {min} 以上が必要です ({got})"},
		"max_properties": {"プロパティが多すぎます", "プロパティ数は {max} 以下が必要です ({got})"},
		"multiple_of":    {"倍数ではありません", "値 {got} は {multipleOf} の倍数ではありません"},
		"composition":    {"合成条件を満たしません", "{combinator} を満たしません (一致 {matched})"},
		"reference":      {"参照を解決できません", "参照 {pointer}: {reason}"},
		"invalid_enum":   {"許可されていない値です", "値は {allowed} のいずれかである必要があります"},
		"invalid_const":  {"許可されていない値です", "値は {const} である必要があります"},
		"parse_error":    {"解析エラー", "解析エラー: {detail}"},
		"duplicate_key":  {"キーが重複しています", "キー {key} が重複しています"},
		"truncated":      {"打ち切られました", "打ち切られました: {detail}"},
		"unevaluated":    {"許可されていない要素です", "要素 {index} は prefixItems・items・contains のいずれにも該当しません"},
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	e, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if msg, ok := render(e.template, data); ok {
		return msg
	}
	return e.short
}

// render substitutes {name} placeholders. It reports false when data lacks
// one of them.
func render(tmpl string, data map[string]string) (string, bool) {
	var b strings.Builder
	for {
		i := strings.IndexByte(tmpl, '{')
		if i < 0 {
			b.WriteString(tmpl)
			return b.String(), true
		}
		j := strings.IndexByte(tmpl[i:], '}')
		if j < 0 {
			b.WriteString(tmpl)
			return b.String(), true
		}
		v, ok := data[tmpl[i+1:i+j]]
		if !ok {
			return "", false
		}
		b.WriteString(tmpl[:i])
		b.WriteString(v)
		tmpl = tmpl[i+j+1:]
	}
}

type holder struct{ tr Translator }

var current atomic.Value

func init() { current.Store(holder{dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	current.Store(holder{dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(holder{tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return current.Load().(holder).tr.Message(code, data)
}
