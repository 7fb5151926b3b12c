package josa_test

import (
	"errors"
	"fmt"

	"github.com/jusunglee/josa"
)

func Example() {
	user := josa.Concat("유진", josa.EunNeun)
	fish := josa.Concat("고등어", josa.IGa)
	fmt.Println(user, fish, "먹고싶다")
	// Output: 유진은 고등어가 먹고싶다
}

func ExampleSelect() {
	cat := "고양이"
	form, err := josa.Select(cat, josa.IGa)
	if err != nil {
		panic(err)
	}
	fmt.Printf("<span class=\"bold\">%s</span>%s\n", cat, form)
	// Output: <span class="bold">고양이</span>가
}

func ExampleSelect_error() {
	_, err := josa.Select("<b>고양이</b>", josa.IGa)
	var nh *josa.NotHangulSyllableError
	if errors.As(err, &nh) {
		fmt.Println(err)
	}
	_, err = josa.Select("", josa.IGa)
	fmt.Println(errors.Is(err, josa.ErrEmptyString))
	// Output:
	// '>' is not a Hangul syllable
	// true
}

func ExamplePush() {
	s := "나"
	josa.Push(&s, josa.EulReul)
	fmt.Println(s)

	s = "curry"
	josa.Push(&s, josa.IGa)
	fmt.Println(s)
	// Output:
	// 나를
	// curry이(가)
}
