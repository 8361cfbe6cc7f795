package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"openai_api_key", "sk-abcdefghijklmnopqrstuvwxyz",
		"user_id", "learner-42",
		"subject", "mathematics",
		"nested", map[string]interface{}{"authorization": "Bearer x"},
	})
	if len(out) != 8 {
		t.Fatalf("unexpected length: got=%d want=8", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("api key not redacted: got=%v", out[1])
	}
	if s, _ := out[3].(string); !strings.HasPrefix(s, "hash:") || len(s) != len("hash:")+12 {
		t.Fatalf("user id not hashed: got=%v", out[3])
	}
	if out[5] != "mathematics" {
		t.Fatalf("plain value changed: got=%v", out[5])
	}
	nested, _ := out[7].(map[string]interface{})
	if nested["authorization"] != "[REDACTED]" {
		t.Fatalf("nested authorization not redacted: got=%v", nested["authorization"])
	}
}

func TestLooksLikeBearer(t *testing.T) {
	cases := map[string]bool{
		"sk-abcdefghijklmnopqrstuvwxyz":        true,
		"AIzaSyA1234567890abcdefghijklmnopqrs": true,
		"eyJhbGciOiJIUzI1.eyJzdWIiOiIxMjM0.sig": true,
		"visual":                               false,
		"":                                     false,
	}
	for in, want := range cases {
		if got := looksLikeBearer(in); got != want {
			t.Fatalf("looksLikeBearer(%q): got=%v want=%v", in, got, want)
		}
	}
}
