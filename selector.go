package josa

import (
	"errors"
	"unicode/utf8"

	"github.com/jusunglee/josa/hangul"
	"golang.org/x/text/unicode/norm"
)

const rieul = 'ㄹ'

// Classifier reports the trailing consonant of a syllable. It returns
// (0, false, nil) for an open syllable, (jamo, true, nil) for a closed one
// and a non-nil error when r is not a syllable at all.
type Classifier interface {
	Jongseong(r rune) (rune, bool, error)
}

// Selector picks josa forms. It holds no mutable state and is safe for
// concurrent use.
type Selector struct {
	classifier Classifier
	normalize  bool
}

type Option func(*Selector)

// WithClassifier replaces the default Hangul block classifier.
func WithClassifier(c Classifier) Option {
	return func(s *Selector) {
		s.classifier = c
	}
}

// WithNormalization NFC-composes nouns before the last character is read, so
// that "가" spelled with conjoining jamo classifies as 가. Off by default: the
// last code point of the noun is classified as given.
func WithNormalization(enabled bool) Option {
	return func(s *Selector) {
		s.normalize = enabled
	}
}

func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		classifier: hangul.Classifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSelector = NewSelector()

// Classify maps a single character to its trailing consonant class.
func (s *Selector) Classify(r rune) (Class, error) {
	jong, closed, err := s.classifier.Jongseong(r)
	switch {
	case err != nil:
		return Open, &NotHangulSyllableError{Char: r, Err: err}
	case !closed:
		return Open, nil
	case jong == rieul:
		return Rieul, nil
	default:
		return Closed, nil
	}
}

// ClassOf classifies the last character of noun.
func (s *Selector) ClassOf(noun string) (Class, error) {
	if s.normalize && !norm.NFC.IsNormalString(noun) {
		noun = norm.NFC.String(noun)
	}
	last, size := utf8.DecodeLastRuneInString(noun)
	if size == 0 {
		return Open, ErrEmptyString
	}
	return s.Classify(last)
}

// Select returns the josa form of c that follows noun.
//
// Unlike Push it never guesses: an empty noun yields ErrEmptyString and a
// noun whose last character is not a Hangul syllable yields a
// *NotHangulSyllableError. This is the call to use when the noun is wrapped
// in markup, e.g. "<b>고양이</b>", where the last character is '>'.
func (s *Selector) Select(noun string, c Category) (string, error) {
	cls, err := s.ClassOf(noun)
	if err != nil {
		return "", err
	}
	return Lookup(c, cls), nil
}

// Push appends the josa form of c to *dst.
//
// An empty string is left unchanged. When the last character is not a Hangul
// syllable the ambiguity marker (c.Both()) is appended instead.
func (s *Selector) Push(dst *string, c Category) {
	form, err := s.Select(*dst, c)
	switch {
	case err == nil:
		*dst += form
	case errors.Is(err, ErrEmptyString):
		// nothing to attach to
	case IsNotHangulSyllable(err):
		*dst += c.Both()
	}
}

// ConcatInPlace is Push under the name used alongside Concat.
func (s *Selector) ConcatInPlace(dst *string, c Category) {
	s.Push(dst, c)
}

// Concat returns noun followed by the josa form of c, with the same fallbacks
// as Push.
func (s *Selector) Concat(noun string, c Category) string {
	s.Push(&noun, c)
	return noun
}

// Select uses the default selector. See Selector.Select.
func Select(noun string, c Category) (string, error) {
	return defaultSelector.Select(noun, c)
}

// Push uses the default selector. See Selector.Push.
func Push(dst *string, c Category) {
	defaultSelector.Push(dst, c)
}

func ConcatInPlace(dst *string, c Category) {
	defaultSelector.ConcatInPlace(dst, c)
}

func Concat(noun string, c Category) string {
	return defaultSelector.Concat(noun, c)
}

// ClassOf uses the default selector. See Selector.ClassOf.
func ClassOf(noun string) (Class, error) {
	return defaultSelector.ClassOf(noun)
}
