package tokenize

import (
	"testing"

	"github.com/verte-zerg/tuiread/internal/model"
)

func TestTokenizeWeights(t *testing.T) {
	tokens := Tokenize("Hello, world. Is it you?\n\nYes: it is\n\nEnd!")
	want := []model.Token{
		{Text: "Hello,", Weight: model.ClauseWeight},
		{Text: "world.", Weight: model.SentenceWeight},
		{Text: "Is", Weight: model.NormalWeight},
		{Text: "it", Weight: model.NormalWeight},
		{Text: "you?", Weight: model.ParagraphWeight},
		{Text: "Yes:", Weight: model.ClauseWeight},
		{Text: "it", Weight: model.NormalWeight},
		{Text: "is", Weight: model.ParagraphWeight},
		{Text: "End!", Weight: model.SentenceWeight},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(tokens), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("token %d: expected %+v, got %+v", i, want[i], tokens[i])
		}
	}
}

func TestTokenizeNormalizesLineEndings(t *testing.T) {
	tokens := Tokenize("one\r\n\r\ntwo\rthree")
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	if tokens[0].Weight != model.ParagraphWeight {
		t.Fatalf("expected paragraph weight after CRLF break, got %v", tokens[0].Weight)
	}
	if tokens[1].Weight != model.NormalWeight {
		t.Fatalf("single line break is not a paragraph, got %v", tokens[1].Weight)
	}
}

func TestTokenizeBlank(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\t"} {
		if got := Tokenize(in); len(got) != 0 {
			t.Fatalf("expected no tokens for %q, got %v", in, got)
		}
	}
}

func TestTokenizeWeightsNeverBelowOne(t *testing.T) {
	for _, tok := range Tokenize("a b, c; d: e. f! g?\n\nh") {
		if tok.Weight < model.NormalWeight {
			t.Fatalf("token %q has weight %v", tok.Text, tok.Weight)
		}
	}
}

func TestTokenizeComposesUnicode(t *testing.T) {
	tokens := Tokenize("cafe\u0301")
	if len(tokens) != 1 || tokens[0].Text != "caf\u00e9" {
		t.Fatalf("expected NFC composed token, got %+v", tokens)
	}
}

func TestTokenizeTrailingBreakIsNotAParagraph(t *testing.T) {
	tokens := Tokenize("last word\n\n  \n\n")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[1].Weight != model.NormalWeight {
		t.Fatalf("final word must keep its own weight, got %v", tokens[1].Weight)
	}
}
