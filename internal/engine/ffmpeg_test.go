package engine

import (
	"strings"
	"testing"
)

func TestEscapeDrawtext(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"colon", "scene 1: intro", `scene 1\: intro`},
		{"quote", "it's fine", `it\'s fine`},
		{"backslash", `a\b`, `a\\b`},
		{"backslash then colon", `c:\media`, `c\:\\media`},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := escapeDrawtext(tc.in); got != tc.want {
				t.Errorf("escapeDrawtext(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestEnableExpr(t *testing.T) {
	if got, want := enableExpr(1.5, 3), "between(t,1.500,3.000)"; got != want {
		t.Errorf("enableExpr(1.5, 3) = %q, want %q", got, want)
	}
	if got, want := enableExpr(0, 0.125), "between(t,0.000,0.125)"; got != want {
		t.Errorf("enableExpr(0, 0.125) = %q, want %q", got, want)
	}
}

func TestTextAnchors(t *testing.T) {
	// Anchors are expressed against w/h so they hold for any frame size.
	if got, want := textAnchorX(0.5), "(w*0.5000)-(text_w/2)"; got != want {
		t.Errorf("textAnchorX(0.5) = %q, want %q", got, want)
	}
	if got, want := textAnchorY(0.9), "(h*0.9000)-(text_h/2)"; got != want {
		t.Errorf("textAnchorY(0.9) = %q, want %q", got, want)
	}
}

func TestTailBuffer_KeepsTail(t *testing.T) {
	var tb tailBuffer

	n, err := tb.Write([]byte("short output"))
	if err != nil || n != 12 {
		t.Fatalf("Write = (%d, %v), want (12, nil)", n, err)
	}
	if got := tb.Tail(); got != "short output" {
		t.Fatalf("Tail() = %q, want full short write", got)
	}

	// Overflow by writing past the cap in chunks; only the end survives.
	chunk := strings.Repeat("x", 4096)
	for i := 0; i < 5; i++ {
		tb.Write([]byte(chunk))
	}
	tb.Write([]byte("FINAL ERROR LINE"))

	tail := tb.Tail()
	if len(tail) > maxStderrBytes {
		t.Fatalf("len(Tail()) = %d, want at most %d", len(tail), maxStderrBytes)
	}
	if !strings.HasSuffix(tail, "FINAL ERROR LINE") {
		t.Fatalf("Tail() = ...%q, want the most recent write preserved", tail[len(tail)-32:])
	}
}

func TestTailBuffer_TrimsWhitespace(t *testing.T) {
	var tb tailBuffer
	tb.Write([]byte("error: no such file\n\n"))
	if got := tb.Tail(); got != "error: no such file" {
		t.Fatalf("Tail() = %q, want trailing newlines trimmed", got)
	}
}

func TestFillerInputSpec(t *testing.T) {
	s := fillerInput(3.5)
	if s == nil {
		t.Fatal("fillerInput returned nil stream")
	}
}
