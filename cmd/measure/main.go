package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greenjobs/internal/app"
	"greenjobs/internal/config"
	"greenjobs/internal/domain/advert"
	"greenjobs/internal/domain/measures"
	"greenjobs/internal/output"
	"greenjobs/internal/pipeline"
)

const defaultSampleSize = 10000

type cliFlags struct {
	input      string
	out        string
	batchSize  int
	configPath string
	production bool
	sample     int
	by         string

	skillsDate      string
	occupationsDate string
	industriesDate  string
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd := os.Args[1]
	switch cmd {
	case "skills", "occupations", "industries", "all", "aggregate":
	default:
		usage()
		os.Exit(2)
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fl := cliFlags{}
	fs.StringVar(&fl.input, "input", "", "adverts JSON-lines file (default stdin)")
	fs.StringVar(&fl.out, "out", "out", "output directory")
	fs.IntVar(&fl.batchSize, "batch-size", 0, "adverts per chunk (default from env)")
	fs.StringVar(&fl.configPath, "config", "", "thresholds/dates YAML overlay")
	fs.BoolVar(&fl.production, "production", false, "measure the full input")
	fs.IntVar(&fl.sample, "sample", defaultSampleSize, "sample size outside production")
	fs.StringVar(&fl.by, "by", "occupation", "aggregate grouping: occupation|industry|region")
	fs.StringVar(&fl.skillsDate, "skills-date", "", "skills reference date YYYYMMDD")
	fs.StringVar(&fl.occupationsDate, "occupations-date", "", "occupations reference date YYYYMMDD")
	fs.StringVar(&fl.industriesDate, "industries-date", "", "industries reference date YYYYMMDD")
	_ = fs.Parse(os.Args[2:])

	logger := log.New(os.Stderr, "", log.LstdFlags)

	if err := run(cmd, fl, logger); err != nil {
		logger.Fatalf("measure %s failed: %v", cmd, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: measure <skills|occupations|industries|all|aggregate> [flags]")
}

func run(cmd string, fl cliFlags, logger *log.Logger) error {
	cfg, err := config.LoadBatch()
	if err != nil {
		return err
	}
	if fl.batchSize > 0 {
		cfg.Measure.ChunkSize = fl.batchSize
	}

	fileCfg, err := config.LoadFile(fl.configPath)
	if err != nil {
		return err
	}
	if fl.skillsDate != "" {
		fileCfg.Dates.Skills = fl.skillsDate
	}
	if fl.occupationsDate != "" {
		fileCfg.Dates.Occupations = fl.occupationsDate
	}
	if fl.industriesDate != "" {
		fileCfg.Dates.Industries = fl.industriesDate
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := app.NewContainer(cfg, fileCfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
	}()
	go c.Hub.Run()

	limit := 0
	if !fl.production {
		limit = fl.sample
	}
	adverts, err := readInput(fl.input, limit)
	if err != nil {
		return err
	}
	logger.Printf("cmd=measure subcommand=%s adverts=%d production=%t", cmd, len(adverts), fl.production)

	stamp := time.Now().UTC().Format("20060102")

	switch cmd {
	case "skills":
		rows, err := measureAxis(ctx, c, adverts, axisSkills)
		if err != nil {
			return err
		}
		return output.WriteSkills(fl.out, fmt.Sprintf("skills_%s.csv", stamp), rows)

	case "occupations":
		rows, err := measureAxis(ctx, c, adverts, axisOccupations)
		if err != nil {
			return err
		}
		return output.WriteOccupations(fl.out, fmt.Sprintf("occupations_%s.csv", stamp), rows)

	case "industries":
		rows, err := measureAxis(ctx, c, adverts, axisIndustries)
		if err != nil {
			return err
		}
		return output.WriteIndustries(fl.out, fmt.Sprintf("industries_%s.csv", stamp), rows)

	case "all":
		rows, report, err := c.Runner.Run(ctx, adverts)
		if err != nil {
			return err
		}
		if err := writeAll(fl.out, stamp, rows); err != nil {
			return err
		}
		if c.Measures != nil {
			if err := c.Measures.SaveMeasures(ctx, report.RunID, rows); err != nil {
				return err
			}
		}
		return nil

	case "aggregate":
		groupBy, err := parseGroupKey(fl.by)
		if err != nil {
			return err
		}
		rows, report, err := c.Runner.Run(ctx, adverts)
		if err != nil {
			return err
		}
		agg := c.NewAggregator(groupBy).Aggregate(rows)
		name := fmt.Sprintf("aggregates_%s_%s.csv", groupBy, stamp)
		if err := output.WriteAggregates(fl.out, name, agg); err != nil {
			return err
		}
		if c.Measures != nil {
			if err := c.Measures.SaveAggregates(ctx, report.RunID, agg); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("unknown subcommand %q", cmd)
}

func readInput(path string, limit int) ([]advert.Advert, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return pipeline.ReadAdverts(r, limit)
}

func writeAll(dir, stamp string, rows []measures.GreenMeasures) error {
	if err := output.WriteSkills(dir, fmt.Sprintf("skills_%s.csv", stamp), rows); err != nil {
		return err
	}
	if err := output.WriteOccupations(dir, fmt.Sprintf("occupations_%s.csv", stamp), rows); err != nil {
		return err
	}
	return output.WriteIndustries(dir, fmt.Sprintf("industries_%s.csv", stamp), rows)
}

func parseGroupKey(by string) (measures.GroupKey, error) {
	switch measures.GroupKey(by) {
	case measures.GroupByOccupation:
		return measures.GroupByOccupation, nil
	case measures.GroupByIndustry:
		return measures.GroupByIndustry, nil
	case measures.GroupByRegion:
		return measures.GroupByRegion, nil
	}
	return "", fmt.Errorf("unknown group key %q", by)
}

type axis int

const (
	axisSkills axis = iota
	axisOccupations
	axisIndustries
)

// measureAxis runs a single measurer over the adverts in chunks and
// carries the advert metadata through like the full pipeline does.
func measureAxis(ctx context.Context, c *app.Container, adverts []advert.Advert, ax axis) ([]measures.GreenMeasures, error) {
	cs := c.Config.Measure.ChunkSize
	if cs <= 0 {
		cs = 500
	}

	out := make([]measures.GreenMeasures, len(adverts))
	var nulls measures.NullCounts

	for lo := 0; lo < len(adverts); lo += cs {
		hi := lo + cs
		if hi > len(adverts) {
			hi = len(adverts)
		}
		chunk := adverts[lo:hi]

		for i, ad := range chunk {
			out[lo+i] = measures.GreenMeasures{
				AdvertID: ad.ID,
				Region:   ad.Region(),
				ITL1Code: ad.ITL1Code,
				ITL2Code: ad.ITL2Code,
				ITL3Code: ad.ITL3Code,
			}
		}

		switch ax {
		case axisSkills:
			res, n, err := c.Skills.MeasureBatch(ctx, chunk)
			if err != nil {
				return nil, err
			}
			nulls.Add(n)
			for i := range res {
				s := res[i]
				out[lo+i].Skills = &s
			}

		case axisOccupations:
			res, n, err := c.Occupations.MeasureBatch(ctx, chunk)
			if err != nil {
				return nil, err
			}
			nulls.Add(n)
			for i := range res {
				if res[i].Matched() {
					o := res[i]
					out[lo+i].Occupation = &o
				}
			}

		case axisIndustries:
			res, n, err := c.Industries.MeasureBatch(ctx, chunk)
			if err != nil {
				return nil, err
			}
			nulls.Add(n)
			for i := range res {
				if res[i].Matched() {
					d := res[i]
					out[lo+i].Industry = &d
				}
			}
		}
	}

	c.Logger.Printf(
		"cmd=measure nulls no_title=%d no_company=%d no_text=%d no_occupation=%d no_industry=%d no_skills=%d below_threshold=%d",
		nulls.NoTitle, nulls.NoCompany, nulls.NoText,
		nulls.NoOccupation, nulls.NoIndustry, nulls.NoSkills, nulls.BelowThreshold,
	)
	return out, nil
}
