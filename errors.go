package josa

import (
	"errors"
	"fmt"
)

// ErrEmptyString is returned by Select when the noun has no characters.
var ErrEmptyString = errors.New("empty string given to josa selector")

// NotHangulSyllableError is returned by Select when the last character of
// the noun is not a precomposed Hangul syllable.
type NotHangulSyllableError struct {
	Char rune
	Err  error // the classifier's error, if any
}

func (e *NotHangulSyllableError) Error() string {
	return fmt.Sprintf("%q is not a Hangul syllable", e.Char)
}

func (e *NotHangulSyllableError) Unwrap() error {
	return e.Err
}

// IsNotHangulSyllable returns true if err is or wraps a NotHangulSyllableError.
func IsNotHangulSyllable(err error) bool {
	var nh *NotHangulSyllableError
	return errors.As(err, &nh)
}

// UnknownCategoryError is returned by ParseCategory for unrecognised input.
type UnknownCategoryError struct {
	Input string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown josa category %q", e.Input)
}
