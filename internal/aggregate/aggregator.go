// Package aggregate turns per-advert green measures into ranked group
// summaries by occupation code, industry code or region, with tercile-based
// composite greenness scores.
package aggregate

import (
	"log"
	"sort"
	"time"

	"greenjobs/internal/domain/measures"
)

type Options struct {
	GroupBy measures.GroupKey
	// TopN bounds every ranked list in a row.
	TopN int
	// MinGroupAds drops occupation groups with fewer adverts; small
	// occupation cells are too noisy to rank.
	MinGroupAds int
	// ExcludedOccupations removes adverts whose matched occupation label
	// is a known false-green source before any counting happens.
	ExcludedOccupations []string
}

func DefaultOptions(groupBy measures.GroupKey) Options {
	return Options{
		GroupBy:             groupBy,
		TopN:                5,
		MinGroupAds:         50,
		ExcludedOccupations: []string{"Betting shop managers"},
	}
}

type Aggregator struct {
	opts   Options
	logger *log.Logger
}

func New(opts Options, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.Default()
	}
	if opts.TopN <= 0 {
		opts.TopN = 5
	}
	return &Aggregator{opts: opts, logger: logger}
}

// meanAcc accumulates an optional per-advert value.
type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

func (m meanAcc) mean() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}

type group struct {
	key      string
	label    string
	count    int
	regions  map[string]int

	timeshare meanAcc
	propGreen meanAcc
	ghg       meanAcc
	hours     meanAcc
	workers   meanAcc
	salary    meanAcc

	greenSkills countTable
	otherSkills countTable
	industries  countTable
	occupations countTable
}

// Aggregate builds one row per group key. Rows are sorted by advert count
// descending, key ascending.
func (a *Aggregator) Aggregate(rows []measures.GreenMeasures) []measures.AggregateRow {
	start := time.Now()

	kept := a.applyOccupationFilter(rows)

	globalRegions := make(map[string]int)
	globalTotal := 0
	for _, r := range kept {
		if r.Region != "" {
			globalRegions[r.Region]++
			globalTotal++
		}
	}
	globalShares := make(map[string]float64, len(globalRegions))
	for region, n := range globalRegions {
		globalShares[region] = float64(n) / float64(globalTotal)
	}

	groups := make(map[string]*group)
	for _, r := range kept {
		key, label := a.groupKey(r)
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &group{
				key:         key,
				label:       label,
				regions:     make(map[string]int),
				greenSkills: countTable{},
				otherSkills: countTable{},
				industries:  countTable{},
				occupations: countTable{},
			}
			groups[key] = g
		}
		a.accumulate(g, r)
	}

	if a.opts.GroupBy == measures.GroupByOccupation && a.opts.MinGroupAds > 0 {
		for key, g := range groups {
			if g.count < a.opts.MinGroupAds {
				delete(groups, key)
			}
		}
	}

	total := 0
	for _, g := range groups {
		total += g.count
	}

	out := make([]measures.AggregateRow, 0, len(groups))
	for _, g := range groups {
		row := measures.AggregateRow{
			Key:        g.key,
			KeyLabel:   g.label,
			GroupBy:    a.opts.GroupBy,
			NumAdverts: g.count,

			MeanTimeshare:        g.timeshare.mean(),
			MeanPropGreenSkills:  g.propGreen.mean(),
			MeanGHGPerUnit:       g.ghg.mean(),
			MeanPropHoursGreen:   g.hours.mean(),
			MeanPropWorkersGreen: g.workers.mean(),
			MeanSalary:           g.salary.mean(),

			TopGreenSkills: topRanked(g.greenSkills, a.opts.TopN),
			TopOtherSkills: topRanked(g.otherSkills, a.opts.TopN),
			TopIndustries:  topRanked(g.industries, a.opts.TopN),
			TopOccupations: topRanked(g.occupations, a.opts.TopN),
			TopRegions:     locationQuotients(g.regions, globalShares, a.opts.TopN),
		}
		if total > 0 {
			row.PropAdverts = float64(g.count) / float64(total)
		}
		out = append(out, row)
	}

	a.scoreRows(out)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].NumAdverts == out[j].NumAdverts {
			return out[i].Key < out[j].Key
		}
		return out[i].NumAdverts > out[j].NumAdverts
	})

	a.logger.Printf("pipeline=aggregate group_by=%s status=ok adverts=%d groups=%d duration=%s",
		a.opts.GroupBy, len(rows), len(out), time.Since(start))
	return out
}

func (a *Aggregator) applyOccupationFilter(rows []measures.GreenMeasures) []measures.GreenMeasures {
	if len(a.opts.ExcludedOccupations) == 0 {
		return rows
	}
	excluded := make(map[string]bool, len(a.opts.ExcludedOccupations))
	for _, label := range a.opts.ExcludedOccupations {
		excluded[label] = true
	}
	kept := make([]measures.GreenMeasures, 0, len(rows))
	for _, r := range rows {
		if r.Occupation != nil && excluded[r.Occupation.Label] {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func (a *Aggregator) groupKey(r measures.GreenMeasures) (string, string) {
	switch a.opts.GroupBy {
	case measures.GroupByOccupation:
		if r.Occupation == nil || !r.Occupation.Matched() {
			return "", ""
		}
		return r.Occupation.SOC2020EXT, r.Occupation.Label
	case measures.GroupByIndustry:
		if r.Industry == nil || r.Industry.SIC == "" {
			return "", ""
		}
		return r.Industry.SIC, r.Industry.SICName
	case measures.GroupByRegion:
		return r.Region, r.Region
	}
	return "", ""
}

func (a *Aggregator) accumulate(g *group, r measures.GreenMeasures) {
	g.count++
	if r.Region != "" {
		g.regions[r.Region]++
	}
	g.salary.add(r.MeanSalary)

	if r.Skills != nil && r.Skills.NumSplitSpans > 0 {
		pg := r.Skills.PropGreen
		g.propGreen.add(&pg)
		for _, sp := range r.Skills.GreenSpans {
			id := ""
			if sp.GreenMapping != nil {
				id = sp.GreenMapping.ID
			}
			g.greenSkills.add(id+"|"+sp.Label(), sp.Label())
		}
		for _, sp := range r.Skills.OtherSpans {
			id := ""
			if sp.FullMapping != nil {
				id = sp.FullMapping.ID
			}
			g.otherSkills.add(id+"|"+sp.Label(), sp.Label())
		}
	}

	if r.Occupation != nil && r.Occupation.Matched() {
		g.timeshare.add(r.Occupation.GreenTimeshare)
		g.occupations.add(r.Occupation.SOC2020EXT, r.Occupation.Label)
	}

	if r.Industry != nil && r.Industry.SIC != "" {
		g.ghg.add(r.Industry.GHGPerUnit)
		g.hours.add(r.Industry.PropHoursGreen)
		g.workers.add(r.Industry.PropWorkersGreen)
		g.industries.add(r.Industry.SIC, r.Industry.SICName)
	}
}

// scoreRows bins each axis into terciles across the emitted rows and
// buckets the composite. GHG is inverted: the dirtiest tercile scores
// lowest.
func (a *Aggregator) scoreRows(rows []measures.AggregateRow) {
	bin := func(get func(*measures.AggregateRow) *float64, inverted bool, set func(*measures.AggregateRow, measures.TercileBin)) {
		values := make([]float64, 0, len(rows))
		for i := range rows {
			if v := get(&rows[i]); v != nil {
				values = append(values, *v)
			}
		}
		lo, hi, ok := terciles(values)
		if !ok {
			return
		}
		for i := range rows {
			if v := get(&rows[i]); v != nil {
				set(&rows[i], binValue(*v, lo, hi, inverted))
			}
		}
	}

	bin(func(r *measures.AggregateRow) *float64 { return r.MeanTimeshare }, false,
		func(r *measures.AggregateRow, b measures.TercileBin) { r.TimeshareBin = &b })
	bin(func(r *measures.AggregateRow) *float64 { return r.MeanPropGreenSkills }, false,
		func(r *measures.AggregateRow, b measures.TercileBin) { r.PropGreenBin = &b })
	bin(func(r *measures.AggregateRow) *float64 { return r.MeanGHGPerUnit }, true,
		func(r *measures.AggregateRow, b measures.TercileBin) { r.GHGBin = &b })

	for i := range rows {
		rows[i].Composite = composite(rows[i].TimeshareBin, rows[i].PropGreenBin, rows[i].GHGBin)
	}
}
