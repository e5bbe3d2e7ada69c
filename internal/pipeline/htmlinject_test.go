package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no escape needed", input: "body { color: red; }", expected: "body { color: red; }"},
		{name: "escapes style close", input: "</style>", expected: `<\/style>`},
		{name: "multiple occurrences", input: "</a></b>", expected: `<\/a><\/b>`},
		{name: "case variation", input: "</STYLE>", expected: `<\/STYLE>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.input); got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	const css = "h1{color:red}"
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "before closing head",
			html: "<html><head><title>x</title></head><body></body></html>",
			want: "<html><head><title>x</title><style>h1{color:red}</style></head><body></body></html>",
		},
		{
			name: "uppercase head",
			html: "<HTML><HEAD></HEAD></HTML>",
			want: "<HTML><HEAD><style>h1{color:red}</style></HEAD></HTML>",
		},
		{
			name: "after body without head",
			html: `<body class="web"><p>x</p></body>`,
			want: `<body class="web"><style>h1{color:red}</style><p>x</p></body>`,
		},
		{
			name: "fragment",
			html: "<p>x</p>",
			want: "<style>h1{color:red}</style><p>x</p>",
		},
	}

	inj := &CSSInjection{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := inj.InjectCSS(context.Background(), tt.html, css); got != tt.want {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInjectCSS_NoOp(t *testing.T) {
	t.Parallel()

	inj := &CSSInjection{}
	const doc = "<html><head></head></html>"

	if got := inj.InjectCSS(context.Background(), doc, ""); got != doc {
		t.Errorf("empty CSS changed document: %q", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := inj.InjectCSS(ctx, doc, "p{}"); got != doc {
		t.Errorf("cancelled context changed document: %q", got)
	}
}

func TestInjectCSS_EscapesClosingTags(t *testing.T) {
	t.Parallel()

	inj := &CSSInjection{}
	got := inj.InjectCSS(context.Background(), "<head></head>", "p{}</style><script>alert(1)</script>")
	if strings.Count(got, "</style>") != 1 {
		t.Errorf("style element closed early: %q", got)
	}
}
