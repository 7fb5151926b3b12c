// Package josa picks the Korean postposition (josa) that follows a noun.
//
// Whether a josa takes its vowel-initial or consonant-initial form depends on
// the final syllable of the noun: 고양이 takes 가 but 사냥꾼 takes 이. The
// package reads the last character, classifies its trailing consonant and
// looks the form up in a fixed table:
//
//	user := josa.Concat("유진", josa.EunNeun)
//	fish := josa.Concat("고등어", josa.IGa)
//	fmt.Println(user, fish, "먹고싶다") // 유진은 고등어가 먹고싶다
//
// Select is strict and reports why it could not decide. Push, Concat and
// ConcatInPlace never fail: they leave an empty string alone and append an
// ambiguity marker such as "이(가)" after a character that is not a Hangul
// syllable.
package josa
