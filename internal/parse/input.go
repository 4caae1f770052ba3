package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"todo-ai-backend/internal/apperr"
)

const (
	MinInputLen = 2
	MaxInputLen = 500
)

const (
	MsgInputRequired   = "할 일 내용을 입력해주세요."
	MsgInputTooShort   = "할 일은 최소 2자 이상 입력해주세요."
	MsgInputTooLong    = "할 일은 최대 500자까지 입력 가능합니다."
	MsgInputMeaningful = "의미 있는 내용을 입력해주세요."
)

// NormalizeInput NFC-normalizes raw, trims it and collapses every whitespace
// run to one space. Newlines are whitespace too, so no run of blank lines
// survives. Applying it twice is a no-op.
func NormalizeInput(raw string) string {
	return strings.Join(strings.Fields(norm.NFC.String(raw)), " ")
}

// ValidateInput checks a normalized input, reporting the first broken rule.
func ValidateInput(cleaned string) error {
	n := utf8.RuneCountInString(cleaned)
	switch {
	case strings.TrimSpace(cleaned) == "":
		return apperr.Validation(MsgInputRequired)
	case n < MinInputLen:
		return apperr.Validation(MsgInputTooShort)
	case n > MaxInputLen:
		return apperr.Validation(MsgInputTooLong)
	case !hasMeaningfulRune(cleaned):
		return apperr.Validation(MsgInputMeaningful)
	}
	return nil
}

func hasMeaningfulRune(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || isEmojiRune(r) {
			continue
		}
		return true
	}
	return false
}

// isEmojiRune covers pictographs and the joiners, selectors and modifiers
// that combine them into sequences.
func isEmojiRune(r rune) bool {
	switch {
	case r == '\u200d', r == '\u20e3': // ZWJ, keycap
		return true
	case r >= '\ufe00' && r <= '\ufe0f': // variation selectors
		return true
	case r >= 0x1f3fb && r <= 0x1f3ff: // skin tones
		return true
	case r >= 0xe0020 && r <= 0xe007f: // tag sequences
		return true
	}
	return unicode.Is(unicode.So, r) || unicode.Is(unicode.Sk, r)
}
