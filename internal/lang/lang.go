// Package lang handles the bilingual surface of the tutor: language
// detection, greeting recognition and the per-language reply tables.
package lang

import (
	"math/rand/v2"
	"unicode"
)

// Language is the answer language. The detector is a cheap heuristic, not a
// classifier: any Arabic-block rune selects Arabic, everything else is
// English.
type Language int

const (
	English Language = iota
	Arabic
)

func (l Language) String() string {
	if l == Arabic {
		return "ar"
	}
	return "en"
}

// Detect picks the language for a question.
func Detect(text string) Language {
	for _, r := range text {
		if unicode.Is(unicode.Arabic, r) {
			return Arabic
		}
	}
	return English
}

// table holds the fixed per-language strings.
type table struct {
	greetings   []string
	replies     []string
	fallback    string
	misheard    string
	instruction string
}

var tables = map[Language]table{
	English: {
		greetings: []string{
			"hello", "hi", "hey", "greetings",
			"good morning", "good afternoon", "good evening",
		},
		replies: []string{
			"Hello! Ask me anything about the course material.",
			"Hi there! What would you like to know about the lectures?",
			"Hey! I'm ready for your questions about the slides.",
		},
		fallback:    "I don't know. I couldn't find anything about that in the course material.",
		misheard:    "Sorry, I couldn't understand that. Could you repeat the question?",
		instruction: "Answer in English.",
	},
	Arabic: {
		greetings: []string{
			"مرحبا", "اهلا", "أهلا", "السلام عليكم", "صباح الخير", "مساء الخير", "تحية طيبة",
		},
		replies: []string{
			"مرحبا! اسألني عن أي شيء في مادة المقرر.",
			"أهلا بك! ما الذي تود معرفته عن المحاضرات؟",
			"أهلا! أنا جاهز لأسئلتك عن الشرائح.",
		},
		fallback:    "لا أعلم، لم أجد شيئا عن ذلك في مادة المقرر.",
		misheard:    "عذرا، لم أفهم ذلك. هل يمكنك إعادة السؤال؟",
		instruction: "أجب باللغة العربية.",
	},
}

// Fallback is the deterministic "I don't know" answer used when no chunk
// qualifies as grounding.
func Fallback(l Language) string { return tables[l].fallback }

// Misheard is the degraded answer for a failed transcription.
func Misheard(l Language) string { return tables[l].misheard }

// Instruction is the language directive embedded into the tutor prompt.
func Instruction(l Language) string { return tables[l].instruction }

// GreetingReply picks one canned greeting reply.
func GreetingReply(l Language) string {
	replies := tables[l].replies
	return replies[rand.IntN(len(replies))]
}

// GreetingReplies exposes the full reply set, for tests.
func GreetingReplies(l Language) []string {
	return append([]string(nil), tables[l].replies...)
}
