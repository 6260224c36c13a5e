package processor

import (
	"github.com/deadman-allstars/hiscores-tracker/internal/hiscores"
)

// identicalSkillThreshold is how many skills must mirror the overall table
// before the dataset is flagged as degraded. Beyond this count the site is
// almost certainly serving overall totals for every skill category.
const identicalSkillThreshold = 5

type qualitySample [3]struct {
	name  string
	level int
	xp    int64
}

// CheckQuality detects the upstream failure mode where every skill table
// reports the same data as the overall table. It compares the first three
// entries of the overall listing against every other skill; strictly more
// than identicalSkillThreshold exact matches flags the dataset. Advisory
// only: aggregation proceeds regardless.
func CheckQuality(raw hiscores.RawData) QualityReport {
	report := QualityReport{UniqueSkillData: true}
	if len(raw) < 2 {
		return report
	}

	overall := raw[hiscores.SkillOverall]
	if len(overall) < 3 {
		return report
	}
	reference := sampleOf(overall)

	var identical []hiscores.Skill
	for _, skill := range hiscores.AllSkills {
		if skill == hiscores.SkillOverall {
			continue
		}
		records := raw[skill]
		if len(records) < 3 {
			continue
		}
		if sampleOf(records) == reference {
			identical = append(identical, skill)
		}
	}

	if len(identical) > identicalSkillThreshold {
		report.UniqueSkillData = false
		report.IdenticalSkills = identical
		report.Warning = "Tournament hiscores are currently displaying overall total levels " +
			"and XP for all skill categories. Individual skill statistics are not available."
	}
	return report
}

func sampleOf(records []hiscores.PlayerRecord) qualitySample {
	var s qualitySample
	for i := 0; i < 3; i++ {
		s[i].name = records[i].Name
		s[i].level = records[i].Level
		s[i].xp = records[i].XP
	}
	return s
}
