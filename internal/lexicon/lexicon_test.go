package lexicon

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Show me Faf du Plessis batting!", []string{"show", "me", "faf", "du", "plessis", "batting"}},
		{"what's happening?", []string{"what's", "happening"}},
		{"", nil},
		{"  ,.;  ", nil},
	}
	for _, tc := range cases {
		got := Tokenize(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCorrectSpelling(t *testing.T) {
	got := CorrectSpelling("plaer bating at the stadum")
	want := "player batting at the stadium"
	if got != want {
		t.Fatalf("CorrectSpelling = %q, want %q", got, want)
	}
}

func TestStem(t *testing.T) {
	cases := map[string]string{
		"batting":      "bat",
		"celebrations": "celebr",
		"players":      "player",
	}
	for in, want := range cases {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLemmatizeVerb(t *testing.T) {
	cases := map[string]string{
		"ran":         "run",
		"caught":      "catch",
		"bowled":      "bowl",
		"hitting":     "hit",
		"batting":     "bat",
		"celebrating": "celebrate",
		"practising":  "practice",
		"fields":      "field",
		"player":      "player",
	}
	for in, want := range cases {
		if got := LemmatizeVerb(in); got != want {
			t.Errorf("LemmatizeVerb(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripStopWordsNeverEmpty(t *testing.T) {
	if got := StripStopWords("show me the pictures"); got != "show me the pictures" {
		t.Fatalf("all-stop-word query must pass through, got %q", got)
	}
	if got := StripStopWords("show me batting photos"); got != "batting" {
		t.Fatalf("StripStopWords = %q, want %q", got, "batting")
	}
}

func TestSynonymsBidirectional(t *testing.T) {
	bat := Synonyms("batting")
	if len(bat) == 0 || bat[0] != "hitting" {
		t.Fatalf("Synonyms(batting) = %v", bat)
	}
	back := Synonyms("hitting")
	found := false
	for _, s := range back {
		if s == "batting" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Synonyms(hitting) should contain batting, got %v", back)
	}
	if Synonyms("zzz") != nil {
		t.Fatal("unknown word should have no synonyms")
	}
}

func TestPOSTagsFallback(t *testing.T) {
	tags := POSTags("faf batting")
	if len(tags) == 0 {
		t.Fatal("expected tags")
	}
	for _, tt := range tags {
		if strings.TrimSpace(tt.Text) == "" || tt.Tag == "" {
			t.Fatalf("empty token or tag in %v", tags)
		}
	}
}

func TestTagPredicates(t *testing.T) {
	for _, tag := range []string{"NN", "NNS", "NNP", "NNPS"} {
		if !IsNounTag(tag) {
			t.Errorf("IsNounTag(%q) = false", tag)
		}
	}
	for _, tag := range []string{"VB", "VBD", "VBG", "VBN", "VBP", "VBZ"} {
		if !IsVerbTag(tag) {
			t.Errorf("IsVerbTag(%q) = false", tag)
		}
	}
	for _, tag := range []string{"JJ", "JJR", "JJS"} {
		if !IsAdjectiveTag(tag) {
			t.Errorf("IsAdjectiveTag(%q) = false", tag)
		}
	}
	for _, tag := range []string{"DT", "IN", "RB", "CC"} {
		if IsNounTag(tag) || IsVerbTag(tag) || IsAdjectiveTag(tag) {
			t.Errorf("%q should be neither noun, verb nor adjective", tag)
		}
	}
}

func TestNounVerbTokens(t *testing.T) {
	got := NounVerbTokens("the victory celebration")
	if !reflect.DeepEqual(got, []string{"victory", "celebration"}) {
		t.Fatalf("NounVerbTokens = %v", got)
	}
	if toks := NounVerbTokens(""); toks != nil {
		t.Fatalf("empty query yielded %v", toks)
	}
}

func TestNounAdjectiveTokensDropStopWords(t *testing.T) {
	got := NounAdjectiveTokens("the victory celebration")
	for _, tok := range got {
		if tok == "the" {
			t.Fatalf("stop word survived: %v", got)
		}
	}
	found := false
	for _, tok := range got {
		if tok == "victory" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected victory in %v", got)
	}
}
