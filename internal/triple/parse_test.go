package triple

import (
	"errors"
	"strings"
	"testing"
)

func TestParseLineValid(t *testing.T) {
	got, ok, err := ParseLine(`("Hypertension", "treated_by", "ACE_inhibitor")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok")
	}

	want := Triple{Subject: "Hypertension", Relation: "treated_by", Object: "ACE_inhibitor"}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestParseLineWhitespaceInsensitive(t *testing.T) {
	a, _, err := ParseLine(`("A","rel","B")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, _, err := ParseLine(`   (" A ", " rel ", " B ")	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a != b {
		t.Errorf("expected identical triples, got %+v and %+v", a, b)
	}
}

func TestParseLineBlank(t *testing.T) {
	for _, line := range []string{"", "   ", "\t \t"} {
		_, ok, err := ParseLine(line)
		if err != nil {
			t.Errorf("blank line %q: unexpected error %v", line, err)
		}
		if ok {
			t.Errorf("blank line %q: expected ok == false", line)
		}
	}
}

func TestParseLineEscapes(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"quote", `("say \"hi\"", "r", "B")`, `say "hi"`},
		{"backslash", `("back\\slash", "r", "B")`, `back\slash`},
		{"single quote", `("O\'Brien", "r", "B")`, "O'Brien"},
		{"unknown kept", `("C:\data", "r", "B")`, `C:\data`},
		{"nul", `("A\0", "r", "B")`, "A\x00"},
		{"octal", `("\101\0102", "r", "B")`, "A\b2"},
		{"tab and newline", `("a\tb\nc", "r", "B")`, "a\tb\nc"},
		{"hex", `("Caf\xe9", "r", "B")`, "Café"},
		{"short unicode", `("\u00fcber", "r", "B")`, "über"},
		{"long unicode", `("\U0001F600", "r", "B")`, "\U0001F600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ParseLine(tt.line)
			if err != nil || !ok {
				t.Fatalf("expected %s to parse, got ok=%v err=%v", tt.line, ok, err)
			}
			if got.Subject != tt.want {
				t.Errorf("expected subject %q, got %q", tt.want, got.Subject)
			}
		})
	}
}

func TestParseLineTrailingComma(t *testing.T) {
	got, ok, err := ParseLine(`("A", "rel", "B",)`)
	if err != nil || !ok {
		t.Fatalf("expected trailing comma to parse, got ok=%v err=%v", ok, err)
	}
	if got.Object != "B" {
		t.Errorf("expected object B, got %q", got.Object)
	}
}

func TestParseLineMalformed(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{"missing close paren", `("A", "rel", "B"`, "missing ')'"},
		{"missing open paren", `"A", "rel", "B")`, "missing '('"},
		{"extra close paren", `("A", "rel", "B"))`, "unbalanced parentheses"},
		{"nested paren", `(("A", "rel", "B")`, "unbalanced parentheses"},
		{"two fields", `("A", "rel")`, "found 2"},
		{"four fields", `("A", "rel", "B", "C")`, "found 4"},
		{"no fields", `()`, "found 0"},
		{"empty subject", `("", "rel", "B")`, "field 1 is empty"},
		{"blank object", `("A", "rel", "   ")`, "field 3 is empty"},
		{"unterminated quote", `("A", "rel", "B)`, "unterminated quote"},
		{"missing comma", `("A" "rel", "B")`, "after field 1"},
		{"unquoted field", `("A", rel, "B")`, "expected quoted field"},
		{"single quotes", `('A', 'rel', 'B')`, "expected quoted field"},
		{"truncated hex escape", `("A\x4", "rel", "B")`, "invalid escape"},
		{"surrogate escape", `("A\ud800", "rel", "B")`, "out of range"},
		{"invalid utf8", "(\"Caf\xe9\", \"r\", \"B\")", "invalid UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := ParseLine(tt.line)
			if err == nil {
				t.Fatalf("expected error for %q", tt.line)
			}
			if ok {
				t.Error("expected ok == false on error")
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Error("expected error to match ErrMalformed")
			}
			if !strings.Contains(perr.Reason, tt.reason) {
				t.Errorf("expected reason containing %q, got %q", tt.reason, perr.Reason)
			}
			if perr.Text != tt.line {
				t.Errorf("expected raw text %q, got %q", tt.line, perr.Text)
			}
		})
	}
}

func TestLiteralRoundTrip(t *testing.T) {
	orig := Triple{Subject: `quote "x"`, Relation: "has part", Object: "ünïcode"}

	got, ok, err := ParseLine(orig.Literal())
	if err != nil || !ok {
		t.Fatalf("failed to parse literal %s: %v", orig.Literal(), err)
	}

	if got != orig {
		t.Errorf("expected %+v, got %+v", orig, got)
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Source: "a.sku", Line: 3, Reason: "boom"}
	if err.Error() != "a.sku:3: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}

	err = &ParseError{Line: 7, Reason: "boom"}
	if err.Error() != "line 7: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
