package lang

import (
	"testing"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		text string
		want Language
	}{
		{"what is gradient descent?", English},
		{"", English},
		{"ما هو الانحدار التدريجي؟", Arabic},
		{"explain الشبكات العصبية please", Arabic}, // any Arabic rune wins
		{"123 !?", English},
	}
	for _, tc := range cases {
		if got := Detect(tc.text); got != tc.want {
			t.Errorf("Detect(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestLanguageString(t *testing.T) {
	if English.String() != "en" || Arabic.String() != "ar" {
		t.Errorf("got %q / %q", English.String(), Arabic.String())
	}
}

func TestIsGreeting(t *testing.T) {
	greetings := []string{
		"hello",
		"Hello!",
		"hey there",
		"good morning",
		"helo",        // fuzzy, one edit from "hello"
		"hi, tutor",   // first token match after normalization
		"مرحبا",
		"السلام عليكم",
	}
	for _, q := range greetings {
		if !IsGreeting(q) {
			t.Errorf("IsGreeting(%q) = false, want true", q)
		}
	}

	notGreetings := []string{
		"",
		"what is the chain rule?",
		"hill climbing search",
		"ما هو التعلم العميق؟",
		"higher order functions",
	}
	for _, q := range notGreetings {
		if IsGreeting(q) {
			t.Errorf("IsGreeting(%q) = true, want false", q)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Hello,   World!  ", "hello world"},
		{"Good Morning!!!", "good morning"},
		{"", ""},
		{"?!.", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFixedStringsNonEmpty(t *testing.T) {
	for _, l := range []Language{English, Arabic} {
		if Fallback(l) == "" || Misheard(l) == "" || Instruction(l) == "" {
			t.Errorf("empty fixed string for %v", l)
		}
		if len(GreetingReplies(l)) == 0 {
			t.Errorf("no greeting replies for %v", l)
		}
	}
}

func TestGreetingReplyDrawsFromSet(t *testing.T) {
	set := make(map[string]bool)
	for _, r := range GreetingReplies(English) {
		set[r] = true
	}
	for i := 0; i < 20; i++ {
		if r := GreetingReply(English); !set[r] {
			t.Fatalf("reply %q not in the canned set", r)
		}
	}
}
