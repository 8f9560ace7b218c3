package registry

import (
	"fmt"
	"maps"
	"strconv"
)

// Props holds component properties decoded from JSON, so numbers arrive as
// float64. The getters convert loosely and fall back to def.
type Props map[string]any

func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	maps.Copy(out, p)
	return out
}

func (p Props) String(key, def string) string {
	switch v := p[key].(type) {
	case nil:
		return def
	case string:
		if v == "" {
			return def
		}
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (p Props) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (p Props) Bool(key string, def bool) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// MergeProps layers props left to right. A nil value removes the key.
func MergeProps(layers ...Props) Props {
	out := make(Props)
	for _, l := range layers {
		for k, v := range l {
			if v == nil {
				delete(out, k)
				continue
			}
			out[k] = v
		}
	}
	return out
}
