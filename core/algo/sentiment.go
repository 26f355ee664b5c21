// Package algo has the pure classification and matching functions shared by every scorer.
package algo

import (
	"strings"

	"github.com/alvinmin/auditradar/schema"
)

// DeriveSentiment classifies a news item by counting keyword hits in its title and summary.
// Keywords match as substrings, so "concerns" counts as a hit for "concern".
func DeriveSentiment(title, summary string) schema.Sentiment {
	text := strings.ToLower(title + " " + summary)
	neg := countHits(text, schema.NegativeKeywords)
	pos := countHits(text, schema.PositiveKeywords)
	switch {
	case neg > pos:
		return schema.NegativeSentiment
	case pos > neg:
		return schema.PositiveSentiment
	default:
		return schema.NeutralSentiment
	}
}

// countHits returns how many keywords are contained in text.
func countHits(text string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	return hits
}

// RiskTypeFor returns the risk type label for a news category.
func RiskTypeFor(category string) string {
	if profile, ok := schema.NewsCategories[schema.NormalizeKey(category)]; ok {
		return profile.RiskType
	}
	return schema.DefaultRiskType
}

// SectorFor returns the sector label for a news category.
func SectorFor(category string) string {
	if profile, ok := schema.NewsCategories[schema.NormalizeKey(category)]; ok {
		return profile.Sector
	}
	return schema.DefaultSector
}
