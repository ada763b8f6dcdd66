package domain

import (
	"fmt"
	"strings"
)

// Vibe is a fixed mood/atmosphere category a cafe is matched to based on the
// text of its reviews. The set is closed: only the constants below are valid.
type Vibe string

const (
	VibeQuiet     Vibe = "QUIET"
	VibeSocial    Vibe = "SOCIAL"
	VibeEthnic    Vibe = "ETHNIC"
	VibeTasty     Vibe = "TASTY"
	VibeAesthetic Vibe = "AESTHETIC"
)

// AllVibes lists every Vibe in enumeration order.
// Enumeration order is used to break ties when picking a dominant vibe.
var AllVibes = []Vibe{VibeQuiet, VibeSocial, VibeEthnic, VibeTasty, VibeAesthetic}

// vibeAliases maps earlier spellings of a vibe onto the canonical constant.
var vibeAliases = map[string]Vibe{
	"TALKATIVE": VibeSocial,
	"TASTE":     VibeTasty,
}

// ParseVibe converts a user-supplied vibe name into a Vibe.
// Matching is case-insensitive and accepts the legacy aliases TALKATIVE and TASTE.
// Returns ErrValidation for anything outside the closed set.
func ParseVibe(s string) (Vibe, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, v := range AllVibes {
		if string(v) == name {
			return v, nil
		}
	}
	if v, ok := vibeAliases[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown vibe %q", ErrValidation, s)
}

// ParseVibes parses every entry of names, splitting comma-separated values
// and de-duplicating the result while keeping first-seen order.
func ParseVibes(names []string) ([]Vibe, error) {
	seen := make(map[Vibe]bool)
	var out []Vibe
	for _, raw := range names {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			v, err := ParseVibe(part)
			if err != nil {
				return nil, err
			}
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out, nil
}

// Word returns the lookup word for the vibe: its lowercase name.
func (v Vibe) Word() string {
	return strings.ToLower(string(v))
}

// VibeScores maps each Vibe to a non-negative occurrence count.
// A complete VibeScores has an entry for every Vibe in AllVibes.
type VibeScores map[Vibe]int

// NewVibeScores returns a VibeScores with every vibe present and set to 0.
func NewVibeScores() VibeScores {
	s := make(VibeScores, len(AllVibes))
	for _, v := range AllVibes {
		s[v] = 0
	}
	return s
}

// Sum returns the total score across the given vibes.
// An empty list sums every vibe.
func (s VibeScores) Sum(vibes []Vibe) int {
	if len(vibes) == 0 {
		vibes = AllVibes
	}
	total := 0
	for _, v := range vibes {
		total += s[v]
	}
	return total
}

// Dominant returns the vibe with the highest score, breaking ties by
// enumeration order. Returns "" when every score is zero.
func (s VibeScores) Dominant() Vibe {
	var (
		best  Vibe
		score int
	)
	for _, v := range AllVibes {
		if s[v] > score {
			best, score = v, s[v]
		}
	}
	return best
}
