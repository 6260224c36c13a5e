package hiscores

// Skill is one of the fixed scoring categories tracked by the tournament
// hiscores. Raw values coming off the wire are validated with ParseSkill at
// the scrape boundary so stringly-typed data never reaches the aggregates.
type Skill string

const (
	SkillOverall      Skill = "overall"
	SkillAttack       Skill = "attack"
	SkillDefence      Skill = "defence"
	SkillStrength     Skill = "strength"
	SkillHitpoints    Skill = "hitpoints"
	SkillRanged       Skill = "ranged"
	SkillPrayer       Skill = "prayer"
	SkillMagic        Skill = "magic"
	SkillCooking      Skill = "cooking"
	SkillWoodcutting  Skill = "woodcutting"
	SkillFletching    Skill = "fletching"
	SkillFishing      Skill = "fishing"
	SkillFiremaking   Skill = "firemaking"
	SkillCrafting     Skill = "crafting"
	SkillSmithing     Skill = "smithing"
	SkillMining       Skill = "mining"
	SkillHerblore     Skill = "herblore"
	SkillAgility      Skill = "agility"
	SkillThieving     Skill = "thieving"
	SkillSlayer       Skill = "slayer"
	SkillFarming      Skill = "farming"
	SkillRunecraft    Skill = "runecraft"
	SkillHunter       Skill = "hunter"
	SkillConstruction Skill = "construction"
)

// AllSkills lists every tracked skill in hiscore table order. The index of a
// skill in this slice is its table id on the hiscore site.
var AllSkills = []Skill{
	SkillOverall, SkillAttack, SkillDefence, SkillStrength, SkillHitpoints,
	SkillRanged, SkillPrayer, SkillMagic, SkillCooking, SkillWoodcutting,
	SkillFletching, SkillFishing, SkillFiremaking, SkillCrafting,
	SkillSmithing, SkillMining, SkillHerblore, SkillAgility, SkillThieving,
	SkillSlayer, SkillFarming, SkillRunecraft, SkillHunter, SkillConstruction,
}

var skillTableIDs = func() map[Skill]int {
	m := make(map[Skill]int, len(AllSkills))
	for i, s := range AllSkills {
		m[s] = i
	}
	return m
}()

// ParseSkill validates a raw skill name against the closed skill set.
func ParseSkill(raw string) (Skill, bool) {
	s := Skill(raw)
	_, ok := skillTableIDs[s]
	return s, ok
}

// TableID returns the hiscore table id for a skill. Unknown skills map to
// the overall table, matching the site's own fallback.
func TableID(s Skill) int {
	if id, ok := skillTableIDs[s]; ok {
		return id
	}
	return 0
}

// PlayerRecord is a single scraped hiscore row. Records are immutable once
// produced; identity within one scrape cycle is (Name, Skill).
type PlayerRecord struct {
	Name  string `json:"name" msgpack:"name"`
	Level int    `json:"level" msgpack:"level"`
	XP    int64  `json:"xp" msgpack:"xp"`
	Rank  int    `json:"rank" msgpack:"rank"`
	Skill Skill  `json:"skill" msgpack:"skill"`
}

// RawData is one full scrape cycle's output: per-skill hiscore listings.
// Absent or empty lists per skill are valid and tolerated downstream.
type RawData map[Skill][]PlayerRecord
