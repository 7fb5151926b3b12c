// Package hangul decomposes precomposed Hangul syllables (U+AC00..U+D7A3)
// into their leading consonant, vowel and optional trailing consonant.
package hangul

import "fmt"

const (
	syllableBase = 0xAC00
	syllableEnd  = 0xD7A3

	choN  = 19
	jungN = 21
	jongN = 28
)

// Trailing consonants as compatibility jamo, indexed by jongseong index.
// Index 0 means no trailing consonant.
var trailingJamo = [jongN]rune{
	0, 'ㄱ', 'ㄲ', 'ㄳ', 'ㄴ', 'ㄵ', 'ㄶ', 'ㄷ', 'ㄹ', 'ㄺ',
	'ㄻ', 'ㄼ', 'ㄽ', 'ㄾ', 'ㄿ', 'ㅀ', 'ㅁ', 'ㅂ', 'ㅄ',
	'ㅅ', 'ㅆ', 'ㅇ', 'ㅈ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

// SyllableError is returned when a rune is not a precomposed Hangul syllable.
type SyllableError struct {
	Char rune
}

func (e *SyllableError) Error() string {
	return fmt.Sprintf("%q is not a Hangul syllable", e.Char)
}

// Syllable holds the jamo indexes of a precomposed syllable.
type Syllable struct {
	Leading  int // 0..18
	Medial   int // 0..20
	Trailing int // 0..27, 0 when the syllable is open
}

// IsSyllable reports whether r is a precomposed Hangul syllable.
func IsSyllable(r rune) bool {
	return r >= syllableBase && r <= syllableEnd
}

func Decompose(r rune) (Syllable, error) {
	if !IsSyllable(r) {
		return Syllable{}, &SyllableError{Char: r}
	}
	code := int(r) - syllableBase
	return Syllable{
		Leading:  code / (jongN * jungN),
		Medial:   (code / jongN) % jungN,
		Trailing: code % jongN,
	}, nil
}

// Compose builds the syllable for the given jamo indexes.
func Compose(leading, medial, trailing int) (rune, error) {
	if leading < 0 || leading >= choN ||
		medial < 0 || medial >= jungN ||
		trailing < 0 || trailing >= jongN {
		return 0, fmt.Errorf("jamo index out of range: leading=%d medial=%d trailing=%d", leading, medial, trailing)
	}
	return rune(syllableBase + (leading*jungN+medial)*jongN + trailing), nil
}

// Jongseong returns the trailing consonant of r as a compatibility jamo.
// The boolean is false when the syllable has no trailing consonant.
func Jongseong(r rune) (rune, bool, error) {
	s, err := Decompose(r)
	if err != nil {
		return 0, false, err
	}
	if s.Trailing == 0 {
		return 0, false, nil
	}
	return trailingJamo[s.Trailing], true, nil
}

// TrailingIndex returns the jongseong index of a compatibility jamo, or -1
// when jamo cannot close a syllable.
func TrailingIndex(jamo rune) int {
	for i := 1; i < jongN; i++ {
		if trailingJamo[i] == jamo {
			return i
		}
	}
	return -1
}

// Classifier adapts the package functions to the josa selector's classifier
// interface.
type Classifier struct{}

func (Classifier) Jongseong(r rune) (rune, bool, error) {
	return Jongseong(r)
}
