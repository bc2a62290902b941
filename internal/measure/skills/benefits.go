package skills

import "strings"

// benefitTerms marks recogniser spans that are really perks, not skills.
// Matching spans are diverted into the BENEFITS output list. Curated.
var benefitTerms = []string{
	"pension", "annual leave", "holiday allowance", "sick pay", "bonus",
	"cycle to work", "gym membership", "life insurance", "health insurance",
	"private healthcare", "dental", "share scheme", "season ticket",
	"flexible working", "parental leave", "childcare",
}

func isBenefit(surface string) bool {
	lower := strings.ToLower(surface)
	for _, t := range benefitTerms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
