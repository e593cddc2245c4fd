package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintStableAcrossKeyOrder(t *testing.T) {
	a := map[string]any{"text": "hello", "model": "qwen", "nested": map[string]any{"x": 1.0, "y": 2.0}}
	b := map[string]any{"nested": map[string]any{"y": 2.0, "x": 1.0}, "model": "qwen", "text": "hello"}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprintDistinguishesPayloads(t *testing.T) {
	a := map[string]any{"text": "hello"}
	b := map[string]any{"text": "hello!"}
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprintHandlesResultAndSlices(t *testing.T) {
	r := Result{"success": true, "items": []any{"a", "b"}, "tags": []string{"x"}}
	same := Result{"tags": []string{"x"}, "items": []any{"a", "b"}, "success": true}
	assert.Equal(t, Fingerprint(map[string]any{"r": r}), Fingerprint(map[string]any{"r": same}))
}
