// Package tokenize splits Latin prose into sentences and tokens and
// normalizes word forms for dictionary lookup.
package tokenize

import (
	"strings"
	"unicode"

	"github.com/dgallion1/sententia/internal/doctree"
)

// Token is one word or punctuation mark of a sentence.
type Token struct {
	Original string
	Clean    string
	Punct    bool
}

// quantityMarks strips macrons and breves.
var quantityMarks = strings.NewReplacer(
	"ā", "a", "ă", "a", "ē", "e", "ĕ", "e", "ī", "i", "ĭ", "i",
	"ō", "o", "ŏ", "o", "ū", "u", "ŭ", "u", "ȳ", "y",
	"Ā", "A", "Ă", "A", "Ē", "E", "Ĕ", "E", "Ī", "I", "Ĭ", "I",
	"Ō", "O", "Ŏ", "O", "Ū", "U", "Ŭ", "U", "Ȳ", "Y",
	"̄", "", "̆", "",
)

// classical maps j/v spellings and ligatures to i/u and separate vowels.
var classical = strings.NewReplacer(
	"j", "i", "J", "I", "v", "u", "V", "U",
	"æ", "ae", "Æ", "Ae", "œ", "oe", "Œ", "Oe",
)

// Clean returns the lookup form of a word: quantity marks removed, j and v
// written as i and u, ligatures expanded, lowercased.
func Clean(word string) string {
	return strings.ToLower(classical.Replace(quantityMarks.Replace(word)))
}

func wordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// Words splits a sentence into word and punctuation tokens. Every
// punctuation or symbol rune becomes its own token; whitespace separates.
func Words(sentence string) []Token {
	var out []Token
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			w := word.String()
			out = append(out, Token{Original: w, Clean: Clean(w)})
			word.Reset()
		}
	}
	for _, r := range sentence {
		switch {
		case wordRune(r):
			word.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			out = append(out, Token{Original: string(r), Clean: string(r), Punct: true})
		}
	}
	flush()
	return out
}

// abbreviations end in a period that does not close a sentence.
var abbreviations = map[string]bool{
	"a": true, "c": true, "d": true, "l": true, "m": true, "n": true, "p": true,
	"q": true, "s": true, "t": true, "cn": true, "sex": true, "sp": true,
	"ser": true, "ti": true, "ap": true, "kal": true, "non": true, "id": true,
	"cos": true, "coss": true, "pr": true, "tr": true, "pl": true,
	"ian": true, "feb": true, "mart": true, "apr": true, "mai": true, "iun": true,
	"quint": true, "sext": true, "sept": true, "oct": true, "nov": true, "dec": true,
}

func closer(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == ']' || r == '»' || r == '”' || r == '’'
}

// Sentences splits text after '.', '!' or '?' (and any closing quotes or
// brackets) when followed by whitespace or the end of the text. A period
// after a praenomen or date abbreviation such as "M." or "Kal." does not end
// a sentence. Semicolons and colons stay inside the sentence.
func Sentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	emit := func(end int) {
		if s := strings.Join(strings.Fields(string(runes[start:end])), " "); s != "" {
			out = append(out, s)
		}
		start = end
	}
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if r == '.' && abbreviated(runes[start:i]) {
			continue
		}
		end := i + 1
		for end < len(runes) && (closer(runes[end]) || runes[end] == r) {
			end++
		}
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			continue
		}
		emit(end)
		i = end - 1
	}
	emit(len(runes))
	return out
}

// abbreviated reports whether the word right before a period is a known
// abbreviation.
func abbreviated(before []rune) bool {
	j := len(before)
	for j > 0 && unicode.IsLetter(before[j-1]) {
		j--
	}
	if j == len(before) {
		return false
	}
	return abbreviations[strings.ToLower(string(before[j:]))]
}

// Span is one sentence of an imported document with where it came from.
type Span struct {
	Text       string
	Passage    int
	Breadcrumb []string
	Source     int
}

// Spans splits every passage of t into sentences, stopping after limit
// sentences when limit is positive.
func Spans(t *doctree.Tree, limit int) []Span {
	var out []Span
	for _, p := range t.Passages() {
		for _, s := range Sentences(p.Text) {
			if limit > 0 && len(out) >= limit {
				return out
			}
			out = append(out, Span{Text: s, Passage: p.Index, Breadcrumb: p.Breadcrumb, Source: p.Source})
		}
	}
	return out
}
