package hangul

import "strings"

// Revised Romanization of Korean
var (
	choseong = [choN]string{
		"g", "kk", "n", "d", "tt", "r", "m", "b", "pp",
		"s", "ss", "", "j", "jj", "ch", "k", "t", "p", "h",
	}
	jungseong = [jungN]string{
		"a", "ae", "ya", "yae", "eo", "e", "yeo", "ye", "o",
		"wa", "wae", "oe", "yo", "u", "wo", "we", "wi", "yu",
		"eu", "ui", "i",
	}
	jongseong = [jongN]string{
		"", "g", "kk", "gs", "n", "nj", "nh", "d", "l", "lg",
		"lm", "lb", "ls", "lt", "lp", "lh", "m", "b", "bs",
		"s", "ss", "ng", "j", "ch", "k", "t", "p", "h",
	}
)

// Romanize writes each precomposed syllable of text letter by letter.
// Any other rune, including standalone jamo, is copied through unchanged.
func Romanize(text string) string {
	var b strings.Builder
	for _, r := range text {
		s, err := Decompose(r)
		if err != nil {
			b.WriteRune(r)
			continue
		}
		b.WriteString(choseong[s.Leading])
		b.WriteString(jungseong[s.Medial])
		b.WriteString(jongseong[s.Trailing])
	}
	return b.String()
}

// HasSyllable reports whether text contains at least one precomposed syllable.
func HasSyllable(text string) bool {
	return strings.IndexFunc(text, IsSyllable) >= 0
}
