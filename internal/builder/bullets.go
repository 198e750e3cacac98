package builder

import "strings"

// SplitBullets derives a bullet list from free-form textarea input:
// one bullet per line, trimmed, blank lines dropped, capped at
// MaxBulletsPerJob.
func SplitBullets(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		bullets = append(bullets, line)
		if len(bullets) == MaxBulletsPerJob {
			break
		}
	}
	return bullets
}

// JoinBullets is the inverse of SplitBullets, used when a suggested
// bullet list is written back into a bullets textarea.
func JoinBullets(bullets []string) string {
	return strings.Join(bullets, "\n")
}

// SplitWins breaks the wins field into discrete highlights. The field
// accepts bullets, semicolons, or commas as separators; parts are
// trimmed, empties dropped, and the list capped at 8 to stay readable.
func SplitWins(wins string) []string {
	if wins == "" {
		return nil
	}

	raw := strings.NewReplacer("•", ",", ";", ",").Replace(wins)
	var parts []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts = append(parts, p)
		if len(parts) == 8 {
			break
		}
	}
	return parts
}

// JoinWins serializes a wins list for the download form. The original
// page round-trips highlights through a hidden field using "||".
func JoinWins(wins []string) string {
	return strings.Join(wins, "||")
}

// SplitJoinedWins reverses JoinWins, dropping empty segments.
func SplitJoinedWins(joined string) []string {
	var wins []string
	for _, w := range strings.Split(joined, "||") {
		if strings.TrimSpace(w) == "" {
			continue
		}
		wins = append(wins, strings.TrimSpace(w))
	}
	return wins
}

// CleanCommas normalizes a comma-separated list: parts trimmed, empties
// dropped, duplicates removed case-insensitively while preserving the
// first occurrence's casing and order.
func CleanCommas(s string) string {
	if s == "" {
		return ""
	}

	seen := make(map[string]bool)
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}
