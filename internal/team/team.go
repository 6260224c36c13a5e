// Package team maps player display names to their competition team via the
// fixed name-prefix convention used by the tournament.
package team

import "strings"

// Code identifies one of the competing teams.
type Code string

const (
	BB  Code = "BB"
	DN  Code = "DN"
	TT  Code = "TT"
	SMO Code = "SMO"
	OW  Code = "OW"
	SNA Code = "SNA"

	// Unknown marks players whose name matches no team prefix. They are
	// excluded from every team aggregate.
	Unknown Code = "Unknown"
)

// prefixes is scanned in declaration order; the first matching prefix wins,
// so ordering matters if prefixes ever overlap.
var prefixes = []struct {
	code Code
	name string
}{
	{BB, "B0aty Brawlers"},
	{DN, "Dino Nuggets"},
	{TT, "Torvesta Titans"},
	{SMO, "SkillSpecs Smorcs"},
	{OW, "Odablock Warriors"},
	{SNA, "Solomission Snakes"},
}

// Classify derives a player's team from their display name. It is
// deterministic and has no failure mode: unmatched names classify as Unknown.
func Classify(playerName string) Code {
	for _, p := range prefixes {
		if strings.HasPrefix(playerName, string(p.code)) {
			return p.code
		}
	}
	return Unknown
}

// DisplayName returns the team's full display name, or the code itself for
// codes outside the fixed table.
func DisplayName(code Code) string {
	for _, p := range prefixes {
		if p.code == code {
			return p.name
		}
	}
	return string(code)
}

// All returns the team codes in table order.
func All() []Code {
	codes := make([]Code, 0, len(prefixes))
	for _, p := range prefixes {
		codes = append(codes, p.code)
	}
	return codes
}

// Parse validates a raw team code, case-insensitively.
func Parse(raw string) (Code, bool) {
	c := Code(strings.ToUpper(raw))
	for _, p := range prefixes {
		if p.code == c {
			return p.code, true
		}
	}
	return Unknown, false
}
