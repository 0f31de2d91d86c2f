package personalize

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	maxListItems  = 3
	maxItemRunes  = 40
	maxNotesRunes = 200
)

var paceValues = map[string]bool{
	"slow":   true,
	"medium": true,
	"fast":   true,
}

// 疑似提示注入的片段，大小写不敏感地整体移除
var injectionNeedles = []string{
	"ignore previous",
	"system prompt",
	"you are chatgpt",
	"你是系统",
	"忽略以上",
	"执行命令",
	"developer message",
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// SafeProfile 脱敏后的学习画像，字段为空则在序列化时省略
type SafeProfile struct {
	WeakTopics     []string `json:"weak_topics,omitempty"`
	PreferredStyle []string `json:"preferred_style,omitempty"`
	Pace           string   `json:"pace,omitempty"`
	CommonMistakes []string `json:"common_mistakes,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

func (p SafeProfile) IsEmpty() bool {
	return len(p.WeakTopics) == 0 &&
		len(p.PreferredStyle) == 0 &&
		p.Pace == "" &&
		len(p.CommonMistakes) == 0 &&
		p.Notes == ""
}

// Sanitize 接受 map、JSON 字符串、JSON 字节或空值，其他形状一律得到空画像，绝不报错。
// 幂等：Sanitize(Sanitize(x)) == Sanitize(x)
func Sanitize(raw any) SafeProfile {
	obj := coerceMap(raw)
	if obj == nil {
		return SafeProfile{}
	}

	profile := SafeProfile{
		WeakTopics:     cleanList(obj["weak_topics"]),
		PreferredStyle: cleanList(obj["preferred_style"]),
		CommonMistakes: cleanList(obj["common_mistakes"]),
	}

	if pace, ok := obj["pace"].(string); ok {
		pace = strings.ToLower(pace)
		if paceValues[pace] {
			profile.Pace = pace
		}
	}

	if notes, ok := obj["notes"].(string); ok {
		notes = scrub(notes)
		profile.Notes = truncateRunes(notes, maxNotesRunes)
	}

	return profile
}

func coerceMap(raw any) map[string]any {
	switch v := raw.(type) {
	case nil:
		return nil
	case map[string]any:
		return v
	case string:
		return unmarshalMap([]byte(v))
	case []byte:
		return unmarshalMap(v)
	case json.RawMessage:
		return unmarshalMap(v)
	case SafeProfile:
		return profileToMap(v)
	case *SafeProfile:
		if v == nil {
			return nil
		}
		return profileToMap(*v)
	default:
		return nil
	}
}

func unmarshalMap(data []byte) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	return obj
}

func profileToMap(p SafeProfile) map[string]any {
	obj := map[string]any{}
	if len(p.WeakTopics) > 0 {
		obj["weak_topics"] = toAnySlice(p.WeakTopics)
	}
	if len(p.PreferredStyle) > 0 {
		obj["preferred_style"] = toAnySlice(p.PreferredStyle)
	}
	if p.Pace != "" {
		obj["pace"] = p.Pace
	}
	if len(p.CommonMistakes) > 0 {
		obj["common_mistakes"] = toAnySlice(p.CommonMistakes)
	}
	if p.Notes != "" {
		obj["notes"] = p.Notes
	}
	return obj
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func cleanList(raw any) []string {
	values, ok := raw.([]any)
	if !ok {
		return nil
	}

	var cleaned []string
	for _, item := range values {
		s, ok := item.(string)
		if !ok || s == "" {
			continue
		}
		s = scrub(s)
		if s == "" {
			continue
		}
		cleaned = append(cleaned, truncateRunes(s, maxItemRunes))
		if len(cleaned) >= maxListItems {
			break
		}
	}
	return cleaned
}

// scrub 压缩空白并移除注入片段；统一转小写使移除与结果都大小写无关。
// 单轮移除可能把片段的两半拼成新的片段，也可能把空白收成片段里的空格，
// 所以循环“收空白→移除”直到一轮不再产生任何变化，结果里必然不含片段
func scrub(s string) string {
	s = strings.ToLower(s)
	for {
		prev := s
		s = whitespaceRE.ReplaceAllString(s, " ")
		for _, needle := range injectionNeedles {
			s = strings.ReplaceAll(s, needle, "")
		}
		if s == prev {
			break
		}
	}
	return strings.TrimSpace(s)
}

// 截断后去掉可能裸露的尾部空白，避免二次清洗时长度再变
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		s = string(runes[:max])
	}
	return strings.TrimSpace(s)
}
