package setting

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Snapshot is an immutable view of the settings table. A nil Snapshot answers every lookup with its default.
type Snapshot struct {
	values map[string]string
}

func NewSnapshot(rows []Setting) *Snapshot {
	s := &Snapshot{values: make(map[string]string, len(rows))}
	for _, r := range rows {
		s.values[r.SettingKey] = textOf(r.SettingValue)
	}
	return s
}

// textOf unwraps JSON strings and keeps numbers and legacy raw text as written.
func textOf(raw []byte) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str)
	}
	return strings.TrimSpace(string(raw))
}

func (s *Snapshot) text(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.values[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *Snapshot) String(key, def string) string {
	if v, ok := s.text(key); ok {
		return v
	}
	return def
}

// Int accepts "14", 14 and 14.0.
func (s *Snapshot) Int(key string, def int) int {
	v, ok := s.text(key)
	if !ok {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	d, err := decimal.NewFromString(v)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return def
	}
	return int(d.IntPart())
}

func (s *Snapshot) Decimal(key string, def decimal.Decimal) decimal.Decimal {
	v, ok := s.text(key)
	if !ok {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return def
	}
	return d
}

// All returns every known key with its effective value, defaults filled in.
func (s *Snapshot) All() map[string]any {
	out := make(map[string]any, len(Defaults))
	for _, d := range Defaults {
		switch d.Kind {
		case KindInt:
			out[d.Key] = s.Int(d.Key, d.Value.(int))
		case KindDecimal:
			out[d.Key] = s.Decimal(d.Key, decimal.NewFromFloat(d.Value.(float64))).InexactFloat64()
		default:
			out[d.Key] = s.String(d.Key, d.Value.(string))
		}
	}
	if s != nil {
		for k, v := range s.values {
			if _, known := out[k]; !known {
				out[k] = v
			}
		}
	}
	return out
}
