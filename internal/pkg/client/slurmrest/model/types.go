package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// StringList 兼容 slurmrestd 不同版本中 "字符串" 与 "字符串数组" 两种表示.
// 例如 state 在 v0.0.38 中为 "IDLE", 在 v0.0.40 中为 ["IDLE", "DRAIN"].
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*l = nil
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = splitList(s)
		return nil
	case b[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		out := make([]string, 0, len(raw))
		for _, r := range raw {
			var s string
			// 非字符串元素直接忽略
			if err := json.Unmarshal(r, &s); err == nil && s != "" {
				out = append(out, s)
			}
		}
		*l = out
		return nil
	default:
		*l = nil
		return nil
	}
}

// First returns the first token upper-cased, or "" when empty.
func (l StringList) First() string {
	return l.At(0)
}

// At returns the i-th token upper-cased, or "" when out of range.
func (l StringList) At(i int) string {
	if i < 0 || i >= len(l) {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(l[i]))
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Int 兼容 number, 数字字符串 以及 {"set":true,"infinite":false,"number":N} 三种表示,
// 无法解析时取 0.
type Int int64

func (i *Int) UnmarshalJSON(b []byte) error {
	*i = Int(parseNumber(b))
	return nil
}

// Float 与 Int 相同, 但保留小数部分.
type Float float64

func (f *Float) UnmarshalJSON(b []byte) error {
	*f = Float(parseNumber(b))
	return nil
}

func parseNumber(b []byte) float64 {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0
	}
	switch b[0] {
	case '{':
		var obj struct {
			Set      *bool           `json:"set"`
			Infinite bool            `json:"infinite"`
			Number   json.RawMessage `json:"number"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return 0
		}
		if (obj.Set != nil && !*obj.Set) || obj.Infinite {
			return 0
		}
		return parseNumber(obj.Number)
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return v
	default:
		var v float64
		if err := json.Unmarshal(b, &v); err != nil {
			return 0
		}
		return v
	}
}
