package config

import (
	"encoding/json"
	"hash/fnv"
	"sort"
)

// hashBytes returns the fnv-1a hash of b, used to skip a hot-reload cycle
// when a file-watcher event fires but the decoded config didn't actually
// change. Grounded on pewbot/internal/core/hash.go.
func hashBytes(b []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}

// canonicalHashJSON re-marshals v with sorted map keys so semantically
// identical configs hash the same regardless of key order, then returns
// its fnv-1a hash formatted as hex. diff.go does not call it; it compares
// task/scheduled-action entries with reflect.DeepEqual.
func canonicalHashJSON(v any) string {
	c := canonicalize(v)
	b, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return fnvHex(b)
}

func fnvHex(b []byte) string {
	h := hashBytes(b)
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[h&0xf]
		h >>= 4
	}
	return string(buf)
}

// canonicalize recursively sorts map keys so json.Marshal produces a
// deterministic byte sequence for structurally-equal values.
func canonicalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(x))
		for _, k := range keys {
			out[k] = canonicalize(x[k])
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = canonicalize(e)
		}
		return out
	default:
		return v
	}
}
