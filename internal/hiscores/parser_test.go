package hiscores

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `
<html><body>
<table>
<tr><td>Rank</td><td>Name</td><td>Level</td><td>XP</td></tr>
<tr><td>1</td><td>BB_BobĀthe1st</td><td>99</td><td>50,000,000</td></tr>
<tr><td>2</td><td>DN_Alice</td><td>90</td><td>40,000,000</td></tr>
<tr><td>3</td><td>Ref Mod Ash</td><td>99</td><td>99,999,999</td></tr>
<tr><td>4</td><td>TT_Carol</td><td>-</td><td>-</td></tr>
<tr><td>garbage</td><td>noise</td></tr>
</table>
</body></html>`

func TestParseSkillTable(t *testing.T) {
	records, err := ParseSkillTable([]byte(sampleTable), SkillAttack)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, PlayerRecord{Name: "BB_Bob the1st", Level: 99, XP: 50_000_000, Rank: 1, Skill: SkillAttack}, records[0])
	assert.Equal(t, "DN_Alice", records[1].Name)
	assert.Equal(t, 2, records[1].Rank)

	// Dashes fall back to level 1 / zero XP.
	assert.Equal(t, "TT_Carol", records[2].Name)
	assert.Equal(t, 1, records[2].Level)
	assert.Equal(t, int64(0), records[2].XP)
}

func TestParseSkillTable_SkipsRefereesAndHeaders(t *testing.T) {
	records, err := ParseSkillTable([]byte(sampleTable), SkillOverall)
	require.NoError(t, err)
	for _, rec := range records {
		assert.NotContains(t, rec.Name, "Rank")
		assert.False(t, len(rec.Name) >= 3 && rec.Name[:3] == "Ref", "referee row should be skipped: %s", rec.Name)
	}
}

func TestParseSkillTable_EmptyPage(t *testing.T) {
	records, err := ParseSkillTable([]byte("<html><body></body></html>"), SkillMining)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"encoded space", "BB_BobĀJr", "BB_Bob Jr"},
		{"lowercase macron", "DNāAlice", "DN Alice"},
		{"non ascii", "TT Carol", "TT Carol"},
		{"collapses whitespace", "  OW   Dave  ", "OW Dave"},
		{"plain ascii untouched", "SMO_Eve", "SMO_Eve"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanName(tt.in))
		})
	}
}
