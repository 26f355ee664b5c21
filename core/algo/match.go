package algo

import (
	"regexp"
	"strings"

	"github.com/alvinmin/auditradar/schema"
)

var (
	raisedRiskRegex  = regexp.MustCompile(schema.RaisedRiskPattern)
	loweredRiskRegex = regexp.MustCompile(schema.LoweredRiskPattern)
)

// UnitsForBusinessArea maps a business area to the units it covers.
// The area may be a comma-separated list. Each entry resolves through the static
// area table first and falls back to being a unit name itself.
func UnitsForBusinessArea(area string) []string {
	var out []string
	for _, part := range schema.SplitList(area) {
		if units, ok := schema.BusinessAreaUnits[schema.NormalizeKey(part)]; ok {
			out = appendUnique(out, units...)
			continue
		}
		out = appendUnique(out, part)
	}
	return out
}

// UnitsForNewsCategory maps a news category to its units. Unknown categories map to none.
func UnitsForNewsCategory(category string) []string {
	profile, ok := schema.NewsCategories[schema.NormalizeKey(category)]
	if !ok {
		return nil
	}
	return profile.Units
}

// UnitsForRegulation returns the units whose keywords appear in the regulation's
// impacted areas and processes, in keyword table order without duplicates.
func UnitsForRegulation(r schema.Regulation) []string {
	text := strings.ToLower(r.ImpactedAreas + " " + r.ImpactedProcesses)
	var out []string
	for _, kw := range schema.RegulationKeywords {
		if strings.Contains(text, kw.Keyword) {
			out = appendUnique(out, kw.Units...)
		}
	}
	return out
}

// RegulationAffects reports whether a regulation matches the given unit.
func RegulationAffects(r schema.Regulation, unit string) bool {
	for _, u := range UnitsForRegulation(r) {
		if schema.SameName(u, unit) {
			return true
		}
	}
	return false
}

// RegulationRaisesRisk reports whether raised risk indicators are at least as
// frequent as lowered ones in the free-text risk direction.
func RegulationRaisesRisk(direction string) bool {
	raised, lowered := RegulationDirection(direction)
	return raised >= lowered
}

// RegulationDirection counts raised and lowered indicators: arrow glyphs plus
// phrases such as "increased risk" or "reduces operational risk".
func RegulationDirection(direction string) (raised, lowered int) {
	raised = strings.Count(direction, schema.RaisedGlyph) + len(raisedRiskRegex.FindAllStringIndex(direction, -1))
	lowered = strings.Count(direction, schema.LoweredGlyph) + len(loweredRiskRegex.FindAllStringIndex(direction, -1))
	return raised, lowered
}

// VendorMatches reports whether a vendor name refers to the same company as a CVE vendor field.
// Either name may contain the other, or they may share a token longer than three characters.
func VendorMatches(vendor, cveVendor string) bool {
	a := schema.NormalizeKey(vendor)
	b := schema.NormalizeKey(cveVendor)
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(a) {
		if len(tok) >= schema.MinVendorTokenChars {
			tokens[tok] = struct{}{}
		}
	}
	for _, tok := range strings.Fields(b) {
		if _, ok := tokens[tok]; ok {
			return true
		}
	}
	return false
}

// appendUnique appends names that are not yet present, comparing case-insensitively.
func appendUnique(dst []string, names ...string) []string {
	for _, name := range names {
		found := false
		for _, existing := range dst {
			if schema.SameName(existing, name) {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, name)
		}
	}
	return dst
}
