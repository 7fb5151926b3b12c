package josa

import (
	"fmt"
	"strings"
)

// Category is one of the josa alternations the selector knows about.
type Category uint8

const (
	EunNeun Category = iota // 은, 는
	IGa                     // 이, 가
	EulReul                 // 을, 를
	GwaWa                   // 과, 와
	I                       // 이 (copula and friends), dropped after an open syllable
	Eu                      // 으 (으로, 으면, ...), dropped after an open or ㄹ-final syllable
	numCategories
)

// Class is the shape of a syllable's trailing consonant.
type Class uint8

const (
	Open   Class = iota // no trailing consonant
	Rieul               // trailing ㄹ
	Closed              // any other trailing consonant
	numClasses
)

var forms = [numCategories][numClasses]string{
	EunNeun: {Open: "는", Rieul: "은", Closed: "은"},
	IGa:     {Open: "가", Rieul: "이", Closed: "이"},
	EulReul: {Open: "를", Rieul: "을", Closed: "을"},
	GwaWa:   {Open: "와", Rieul: "과", Closed: "과"},
	I:       {Open: "", Rieul: "이", Closed: "이"},
	Eu:      {Open: "", Rieul: "", Closed: "으"},
}

var both = [numCategories]string{
	EunNeun: "은(는)",
	IGa:     "이(가)",
	EulReul: "을(를)",
	GwaWa:   "와(과)",
	I:       "(이)",
	Eu:      "(으)",
}

var categoryNames = [numCategories]struct {
	name, kebab, label string
}{
	EunNeun: {"EunNeun", "eun-neun", "은/는"},
	IGa:     {"IGa", "i-ga", "이/가"},
	EulReul: {"EulReul", "eul-reul", "을/를"},
	GwaWa:   {"GwaWa", "gwa-wa", "과/와"},
	I:       {"I", "i", "이"},
	Eu:      {"Eu", "eu", "으"},
}

// Lookup returns the surface form of c after a syllable of class cls.
// It returns "" for values outside the defined sets.
func Lookup(c Category, cls Class) string {
	if c >= numCategories || cls >= numClasses {
		return ""
	}
	return forms[c][cls]
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Both returns the ambiguity marker shown when the preceding character
// cannot be classified, e.g. "이(가)".
func (c Category) Both() string {
	if c >= numCategories {
		return ""
	}
	return both[c]
}

func (c Category) String() string {
	if c >= numCategories {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryNames[c].name
}

// Label is the Hangul spelling of the category, e.g. "은/는".
func (c Category) Label() string {
	if c >= numCategories {
		return ""
	}
	return categoryNames[c].label
}

// Kebab is the lower-case dashed name used on the command line and in JSON.
func (c Category) Kebab() string {
	if c >= numCategories {
		return ""
	}
	return categoryNames[c].kebab
}

func (c Category) MarshalText() ([]byte, error) {
	if c >= numCategories {
		return nil, &UnknownCategoryError{Input: c.String()}
	}
	return []byte(c.Kebab()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (cls Class) String() string {
	switch cls {
	case Open:
		return "open"
	case Rieul:
		return "rieul"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("Class(%d)", uint8(cls))
	}
}

// ParseCategory accepts a Go name ("EunNeun"), a dashed name ("eun-neun"),
// a Hangul label with or without the slash ("은/는", "은는") or one of the
// category's surface forms ("는").
func ParseCategory(s string) (Category, error) {
	in := strings.TrimSpace(s)
	for c, n := range categoryNames {
		if strings.EqualFold(in, n.name) || strings.EqualFold(in, n.kebab) ||
			in == n.label || in == strings.ReplaceAll(n.label, "/", "") {
			return Category(c), nil
		}
	}
	// Surface forms overlap between categories ("이"), so labels win above.
	for c := Category(0); c < numCategories; c++ {
		for _, form := range forms[c] {
			if form != "" && in == form {
				return c, nil
			}
		}
	}
	return 0, &UnknownCategoryError{Input: s}
}
