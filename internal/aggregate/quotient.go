package aggregate

import (
	"math"
	"sort"

	"greenjobs/internal/domain/measures"
)

// locationQuotients ranks regions by the group's advert share in the region
// over the region's share of all adverts, rounded to two decimal places.
// Both shares are over region-bearing adverts, so a group's region-less
// adverts never dilute its quotients.
func locationQuotients(groupRegions map[string]int, globalShares map[string]float64, n int) []measures.RegionQuotient {
	groupTotal := 0
	for _, count := range groupRegions {
		groupTotal += count
	}
	if groupTotal == 0 {
		return nil
	}
	out := make([]measures.RegionQuotient, 0, len(groupRegions))
	for region, count := range groupRegions {
		global := globalShares[region]
		if global == 0 {
			continue
		}
		q := (float64(count) / float64(groupTotal)) / global
		out = append(out, measures.RegionQuotient{
			Region:   region,
			Quotient: math.Round(q*100) / 100,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Quotient == out[j].Quotient {
			return out[i].Region < out[j].Region
		}
		return out[i].Quotient > out[j].Quotient
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
