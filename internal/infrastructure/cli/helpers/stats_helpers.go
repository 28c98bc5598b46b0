// Package helpers holds small presentation helpers shared by the CLI
// commands.
package helpers

import "sort"

// UsageStat pairs a label (an intent, a model name) with how often it
// occurred.
type UsageStat struct {
	Label string
	Count int
}

// TopUsage converts a frequency map into a ranked list, most frequent
// first with ties broken alphabetically. A limit of 0 or less returns
// every entry.
func TopUsage(frequency map[string]int, limit int) []UsageStat {
	stats := make([]UsageStat, 0, len(frequency))
	for label, count := range frequency {
		stats = append(stats, UsageStat{Label: label, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Label < stats[j].Label
		}
		return stats[i].Count > stats[j].Count
	})

	if limit > 0 && len(stats) > limit {
		return stats[:limit]
	}
	return stats
}

// CalculateSuccessRate returns the success percentage, 0 when nothing
// was recorded.
func CalculateSuccessRate(successful, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(successful) / float64(total) * 100.0
}
