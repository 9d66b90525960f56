package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mode is the travel mode a route is requested for.
type Mode string

const (
	ModeWalking Mode = "walking"
	ModeDriving Mode = "driving"
	ModeCycling Mode = "cycling"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeWalking, ModeDriving, ModeCycling:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Title returns the mode name with its first letter upper-cased.
func (m Mode) Title() string {
	r, size := utf8.DecodeRuneInString(string(m))
	if r == utf8.RuneError {
		return string(m)
	}
	return string(unicode.ToUpper(r)) + string(m)[size:]
}
