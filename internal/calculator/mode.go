package calculator

import (
	"fmt"
	"strings"
)

// Mode selects which split algorithm applies to a session.
type Mode string

const (
	ModeEqual      Mode = "equal"
	ModeRandom     Mode = "random"
	ModeRegistered Mode = "registered"
)

// ParseMode converts a user-supplied mode name. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeEqual, ModeRandom, ModeRegistered:
		return m, nil
	default:
		return "", fmt.Errorf("unknown split mode: %q", s)
	}
}
