package envutil

import (
	"testing"
	"time"
)

func TestReaders(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "42")
	t.Setenv("ENVUTIL_BAD_INT", "x")
	t.Setenv("ENVUTIL_FLOAT", "0.25")
	t.Setenv("ENVUTIL_BOOL", "off")
	t.Setenv("ENVUTIL_SECS", "30")
	t.Setenv("ENVUTIL_DUR", "2m")
	t.Setenv("ENVUTIL_CSV", " a, ,b ,c")
	t.Setenv("ENVUTIL_ALIAS", "second")

	if got := Int("ENVUTIL_INT", 1); got != 42 {
		t.Fatalf("Int: got=%d want=42", got)
	}
	if got := Int("ENVUTIL_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback: got=%d want=7", got)
	}
	if got := Float("ENVUTIL_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float: got=%v want=0.25", got)
	}
	if got := Bool("ENVUTIL_BOOL", true); got {
		t.Fatalf("Bool: got=true want=false")
	}
	if got := Bool("ENVUTIL_MISSING", true); !got {
		t.Fatalf("Bool default: got=false want=true")
	}
	if got := Seconds("ENVUTIL_SECS", 0); got != 30*time.Second {
		t.Fatalf("Seconds: got=%v want=30s", got)
	}
	if got := Seconds("ENVUTIL_DUR", 0); got != 2*time.Minute {
		t.Fatalf("Seconds duration: got=%v want=2m", got)
	}
	csv := CSV("ENVUTIL_CSV", nil)
	if len(csv) != 3 || csv[0] != "a" || csv[2] != "c" {
		t.Fatalf("CSV: got=%v", csv)
	}
	if got := String("def", "ENVUTIL_MISSING", "ENVUTIL_ALIAS"); got != "second" {
		t.Fatalf("String alias: got=%q want=second", got)
	}
}
