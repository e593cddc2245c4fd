package core

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint computes a stable 64-bit hash over a result payload. Map keys
// are visited in sorted order so two payloads with equal content always hash
// equal regardless of insertion order. Used by the pipeline's filtering
// stage to deduplicate agent responses.
func Fingerprint(payload map[string]any) uint64 {
	d := xxhash.New()
	writeCanonical(d, payload)
	return d.Sum64()
}

func writeCanonical(w io.Writer, v any) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		io.WriteString(w, "{")
		for _, k := range keys {
			io.WriteString(w, k)
			io.WriteString(w, "=")
			writeCanonical(w, t[k])
			io.WriteString(w, ";")
		}
		io.WriteString(w, "}")
	case Result:
		writeCanonical(w, map[string]any(t))
	case []any:
		io.WriteString(w, "[")
		for _, item := range t {
			writeCanonical(w, item)
			io.WriteString(w, ",")
		}
		io.WriteString(w, "]")
	case []string:
		io.WriteString(w, "[")
		for _, item := range t {
			io.WriteString(w, item)
			io.WriteString(w, ",")
		}
		io.WriteString(w, "]")
	default:
		b, err := json.Marshal(t)
		if err != nil {
			fmt.Fprintf(w, "%v", t)
			return
		}
		w.Write(b)
	}
}
