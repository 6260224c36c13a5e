package processor

import (
	"errors"
	"fmt"

	"github.com/deadman-allstars/hiscores-tracker/internal/hiscores"
	"github.com/deadman-allstars/hiscores-tracker/internal/team"
)

// ErrUnknownTeam signals that a comparison or lookup referenced a team code
// not present in the aggregated data.
var ErrUnknownTeam = errors.New("team not found")

// Compare produces the head-to-head result between two teams over every
// tracked skill. A skill is won on strictly greater total level, then
// strictly greater total xp; exact equality on both is a tie.
func Compare(teams map[team.Code]*TeamAggregate, a, b team.Code) (*Comparison, error) {
	team1, ok := teams[a]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, a)
	}
	team2, ok := teams[b]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, b)
	}

	cmp := &Comparison{
		Team1:  ComparisonSide{Code: a, Name: team1.Name, Data: team1},
		Team2:  ComparisonSide{Code: b, Name: team2.Name, Data: team2},
		Skills: make(map[hiscores.Skill]SkillComparison, len(hiscores.AllSkills)),
	}

	var wins1, wins2 int
	for _, skill := range hiscores.AllSkills {
		t1 := team1.Totals[skill]
		t2 := team2.Totals[skill]

		sc := SkillComparison{
			Team1AvgLevel:   team1.Averages[skill].Level,
			Team2AvgLevel:   team2.Averages[skill].Level,
			Team1AvgXP:      team1.Averages[skill].XP,
			Team2AvgXP:      team2.Averages[skill].XP,
			Team1TotalLevel: t1.Level,
			Team2TotalLevel: t2.Level,
			Team1TotalXP:    t1.XP,
			Team2TotalXP:    t2.XP,
			LevelDifference: abs(t1.Level - t2.Level),
			XPDifference:    abs(t1.XP - t2.XP),
		}

		switch {
		case t1.Level > t2.Level:
			sc.Winner = a
			wins1++
		case t2.Level > t1.Level:
			sc.Winner = b
			wins2++
		case t1.XP > t2.XP:
			sc.Winner = a
			wins1++
		case t2.XP > t1.XP:
			sc.Winner = b
			wins2++
		}

		cmp.Skills[skill] = sc
	}

	cmp.Summary = ComparisonSummary{
		Team1Wins: wins1,
		Team2Wins: wins2,
		Ties:      len(hiscores.AllSkills) - wins1 - wins2,
	}
	switch {
	case wins1 > wins2:
		cmp.Summary.OverallWinner = string(a)
	case wins2 > wins1:
		cmp.Summary.OverallWinner = string(b)
	default:
		cmp.Summary.OverallWinner = "tie"
	}

	return cmp, nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
