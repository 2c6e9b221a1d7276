package lang

import "testing"

func TestNewFilter(t *testing.T) {
	if _, ok := NewFilter("lexicon").(LexiconFilter); !ok {
		t.Error("NewFilter(lexicon) should return LexiconFilter")
	}
	if _, ok := NewFilter("builtin").(BuiltinFilter); !ok {
		t.Error("NewFilter(builtin) should return BuiltinFilter")
	}
	if _, ok := NewFilter("").(BuiltinFilter); !ok {
		t.Error("NewFilter with unknown source should fall back to BuiltinFilter")
	}
}

func TestBuiltinFilterIsStopword(t *testing.T) {
	filter := BuiltinFilter{}

	tests := []struct {
		name     string
		token    string
		language string
		want     bool
	}{
		{name: "french article", token: "le", language: French, want: true},
		{name: "french article uppercased", token: "Les", language: French, want: true},
		{name: "french content word", token: "société", language: French, want: false},
		{name: "arabic preposition", token: "في", language: Arabic, want: true},
		{name: "arabic content word", token: "الوثائق", language: Arabic, want: false},
		{name: "english article", token: "the", language: English, want: true},
		{name: "english content word", token: "deadline", language: English, want: false},
		{name: "unsupported language keeps token", token: "le", language: "de", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.IsStopword(tt.token, tt.language)
			if got != tt.want {
				t.Errorf("IsStopword(%q, %q) = %v, want %v", tt.token, tt.language, got, tt.want)
			}
		})
	}
}

func TestLexiconFilterIsStopword(t *testing.T) {
	filter := LexiconFilter{}

	if !filter.IsStopword("pour", French) {
		t.Error("IsStopword(pour, fr) = false, want true")
	}
	if filter.IsStopword("entreprise", French) {
		t.Error("IsStopword(entreprise, fr) = true, want false")
	}
	// Unsupported languages always keep the token.
	if filter.IsStopword("pour", "de") {
		t.Error("IsStopword(pour, de) = true, want false")
	}
}

func TestProcessorProcess(t *testing.T) {
	processor := NewProcessor(NewDetector(), BuiltinFilter{})

	got := processor.Process("Quels documents pour une SARL?", French)

	if got.Language != French {
		t.Errorf("Process() language = %q, want fr", got.Language)
	}
	if got.Normalized != "quels documents pour une sarl" {
		t.Errorf("Process() normalized = %q", got.Normalized)
	}
	if len(got.Tokens) != 5 {
		t.Errorf("Process() tokens = %v, want 5 tokens", got.Tokens)
	}
	// "pour" and "une" are stopwords, the rest survive.
	want := []string{"quels", "documents", "sarl"}
	if len(got.FilteredTokens) != len(want) {
		t.Fatalf("Process() filtered = %v, want %v", got.FilteredTokens, want)
	}
	for i, token := range want {
		if got.FilteredTokens[i] != token {
			t.Errorf("Process() filtered[%d] = %q, want %q", i, got.FilteredTokens[i], token)
		}
	}
}

func TestProcessorDetectsWhenLanguageEmpty(t *testing.T) {
	processor := NewProcessor(NewDetector(), BuiltinFilter{})

	got := processor.Process("ما هي الوثائق المطلوبة لتسجيل شركة؟", "")
	if got.Language != Arabic {
		t.Errorf("Process() detected language = %q, want ar", got.Language)
	}
}
