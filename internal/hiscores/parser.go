package hiscores

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var digits = regexp.MustCompile(`\d+`)

// ParseSkillTable extracts hiscore rows from a skill table page. Header rows,
// referee accounts ("Ref" prefix) and malformed rows are skipped; the site
// occasionally serves garbage cells and the parser must tolerate them.
func ParseSkillTable(page []byte, skill Skill) ([]PlayerRecord, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	var records []PlayerRecord
	for _, row := range tableRows(doc) {
		cells := rowCells(row)
		if len(cells) < 3 {
			continue
		}

		rankMatch := digits.FindString(cells[0])
		if rankMatch == "" {
			continue
		}
		rank, _ := strconv.Atoi(rankMatch)

		name := CleanName(cells[1])
		if name == "" || strings.Contains(name, "Rank") || strings.Contains(name, "Name") {
			continue
		}
		if strings.HasPrefix(name, "Ref") {
			continue
		}

		level := parseNumber(cells[2], 1)
		var xp int64
		if len(cells) > 3 {
			xp = parseNumber(cells[3], 0)
		}

		records = append(records, PlayerRecord{
			Name:  name,
			Level: int(level),
			XP:    xp,
			Rank:  rank,
			Skill: skill,
		})
	}
	return records, nil
}

// CleanName strips the encoding artifacts the hiscore site leaves in player
// names: U+0100/U+0101 stand in for spaces, anything else non-ASCII becomes a
// space, and runs of whitespace collapse.
func CleanName(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r == 'Ā' || r == 'ā':
			b.WriteByte(' ')
		case r > 127:
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// parseNumber strips thousands separators and other non-digit noise before
// parsing. "-" cells and unparsable text fall back to the provided default.
func parseNumber(raw string, fallback int64) int64 {
	cleaned := digits.FindAllString(raw, -1)
	if len(cleaned) == 0 {
		return fallback
	}
	n, err := strconv.ParseInt(strings.Join(cleaned, ""), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func tableRows(doc *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			rows = append(rows, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return rows
}

func rowCells(row *html.Node) []string {
	var cells []string
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "td" {
			cells = append(cells, strings.TrimSpace(nodeText(c)))
		}
	}
	return cells
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}
