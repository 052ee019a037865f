package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/contentpeak/opplens/internal/export"
	"github.com/contentpeak/opplens/pkg/opplens"
	"github.com/contentpeak/opplens/pkg/opplens/affiliate"
	"github.com/contentpeak/opplens/pkg/opplens/config"
	"github.com/contentpeak/opplens/pkg/opplens/store"
	"github.com/contentpeak/opplens/pkg/opplens/store/sqlite"
)

type report struct {
	RunID    string         `json:"run_id"`
	Source   string         `json:"source"`
	Rows     rowsJSON       `json:"rows"`
	Summary  summaryJSON    `json:"summary"`
	TimedOut bool           `json:"timed_out,omitempty"`
	Clusters clustersJSON   `json:"clusters"`
	Keywords []keywordEntry `json:"keywords"`
	Ideas    []ideaEntry    `json:"ideas,omitempty"`
}

type rowsJSON struct {
	Total   int            `json:"total"`
	Kept    int            `json:"kept"`
	Dropped int            `json:"dropped"`
	Errors  []rowErrorJSON `json:"errors,omitempty"`
}

type rowErrorJSON struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type summaryJSON struct {
	Total     int `json:"total"`
	High      int `json:"high"`
	Medium    int `json:"medium"`
	Low       int `json:"low"`
	QuickWins int `json:"quick_wins"`
}

type clustersJSON struct {
	Candidates   int `json:"candidates"`
	Formed       int `json:"formed"`
	IdeasEmitted int `json:"ideas_emitted"`
	IdeasOmitted int `json:"ideas_omitted"`
}

type keywordEntry struct {
	Keyword     string       `json:"keyword"`
	Volume      int          `json:"volume"`
	Difficulty  float64      `json:"difficulty"`
	CPC         float64      `json:"cpc"`
	Intent      string       `json:"intent"`
	Opportunity float64      `json:"opportunity"`
	Category    string       `json:"category"`
	QuickWin    bool         `json:"quick_win,omitempty"`
	Format      string       `json:"format"`
	Matches     []matchEntry `json:"matches,omitempty"`
}

type matchEntry struct {
	Network    string  `json:"network"`
	ContentFit float64 `json:"content_fit"`
	Relevance  float64 `json:"relevance"`
}

type ideaEntry struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Format        string   `json:"format"`
	SEOScore      float64  `json:"seo_score"`
	TrafficScore  float64  `json:"traffic_score"`
	TotalVolume   int      `json:"total_volume"`
	AvgDifficulty float64  `json:"avg_difficulty"`
	AvgCPC        float64  `json:"avg_cpc"`
	Primary       []string `json:"primary_keywords"`
	Secondary     []string `json:"secondary_keywords"`
	Tips          []string `json:"tips"`
	Outline       string   `json:"outline"`
}

func main() {
	var (
		input       = flag.String("input", "", "TSV keyword export (required)")
		configPath  = flag.String("config", "", "Engine config YAML (optional)")
		catalogPath = flag.String("catalog", "", "Affiliate catalog YAML (optional)")
		dbPath      = flag.String("db", "", "SQLite database to record the run (optional)")
		timeout     = flag.Duration("timeout", 0, "Wall-clock limit for the analysis (0 = none)")
		workers     = flag.Int("workers", 0, "Scoring goroutines (0 = engine default)")
		top         = flag.Int("top", 0, "Report only the N best keywords by opportunity (0 = all)")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	var catalog affiliate.Catalog
	if *catalogPath != "" {
		loaded, err := config.LoadCatalog(*catalogPath)
		if err != nil {
			log.Fatalf("load catalog: %v", err)
		}
		catalog = loaded
	}

	engine, err := opplens.New(opplens.Options{
		Config:  cfg,
		Catalog: catalog,
		Workers: *workers,
	})
	if err != nil {
		log.Fatalf("configure engine: %v", err)
	}

	file, err := export.LoadTSV(*input)
	if err != nil {
		log.Fatalf("load export: %v", err)
	}
	log.Printf("Loaded %d rows from %s", len(file.Rows), *input)

	res, err := engine.Analyze(ctx, file.Header, file.Rows)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}
	if res.TimedOut {
		log.Printf("Timed out: scored %d of %d kept rows, skipped matching and ideas", len(res.Keywords), res.Report.RowsKept)
	}

	if *dbPath != "" {
		saveRun(ctx, *dbPath, *input, res)
	}

	out, err := json.MarshalIndent(buildReport(engine, *input, res, *top), "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}

func saveRun(ctx context.Context, dbPath, source string, res opplens.Result) {
	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer st.Close()

	run := store.Run{
		ID:          res.RunID,
		CreatedAt:   time.Now().UTC(),
		Source:      source,
		RowsTotal:   res.Report.RowsTotal,
		RowsKept:    res.Report.RowsKept,
		RowsDropped: res.Report.RowsDropped,
		Summary:     store.Summary(res.Summary),
		TimedOut:    res.TimedOut,
		Keywords:    res.Keywords,
		Ideas:       res.Ideas,
	}
	if err := st.SaveRun(ctx, run); err != nil {
		log.Fatalf("save run: %v", err)
	}
	log.Printf("Recorded run %s in %s", run.ID, dbPath)
}

func buildReport(engine *opplens.Engine, source string, res opplens.Result, top int) report {
	r := report{
		RunID:    res.RunID,
		Source:   source,
		TimedOut: res.TimedOut,
		Rows: rowsJSON{
			Total:   res.Report.RowsTotal,
			Kept:    res.Report.RowsKept,
			Dropped: res.Report.RowsDropped,
		},
		Summary: summaryJSON{
			Total:     res.Summary.Total,
			High:      res.Summary.High,
			Medium:    res.Summary.Medium,
			Low:       res.Summary.Low,
			QuickWins: res.Summary.QuickWins,
		},
		Clusters: clustersJSON{
			Candidates:   res.ClusterStats.Candidates,
			Formed:       res.ClusterStats.ClustersFormed,
			IdeasEmitted: res.ClusterStats.IdeasEmitted,
			IdeasOmitted: res.ClusterStats.IdeasOmitted,
		},
	}
	for _, e := range res.Report.Errors {
		r.Rows.Errors = append(r.Rows.Errors, rowErrorJSON{Row: e.Row, Reason: e.Reason})
	}

	for i, k := range res.Keywords {
		entry := keywordEntry{
			Keyword:     k.Text,
			Volume:      k.SearchVolume,
			Difficulty:  k.Difficulty,
			CPC:         k.CPC,
			Intent:      string(k.Intent),
			Opportunity: k.OpportunityScore,
			Category:    string(k.Category),
			QuickWin:    k.QuickWin,
			Format:      string(engine.ClassifyFormat(k.Text)),
		}
		if i < len(res.Matches) {
			for _, m := range res.Matches[i] {
				entry.Matches = append(entry.Matches, matchEntry{
					Network:    m.Network,
					ContentFit: m.ContentFit,
					Relevance:  m.Relevance,
				})
			}
		}
		r.Keywords = append(r.Keywords, entry)
	}

	if top > 0 && len(r.Keywords) > top {
		sort.SliceStable(r.Keywords, func(i, j int) bool {
			return r.Keywords[i].Opportunity > r.Keywords[j].Opportunity
		})
		r.Keywords = r.Keywords[:top]
	}

	for _, id := range res.Ideas {
		entry := ideaEntry{
			ID:            id.ID,
			Title:         id.Title,
			Format:        string(id.Format),
			SEOScore:      id.SEOScore,
			TrafficScore:  id.TrafficScore,
			TotalVolume:   id.TotalSearchVolume,
			AvgDifficulty: id.AvgDifficulty,
			AvgCPC:        id.AvgCPC,
			Tips:          id.Tips,
			Outline:       id.Outline,
		}
		for _, k := range id.PrimaryKeywords {
			entry.Primary = append(entry.Primary, k.Text)
		}
		for _, k := range id.SecondaryKeywords {
			entry.Secondary = append(entry.Secondary, k.Text)
		}
		r.Ideas = append(r.Ideas, entry)
	}

	return r
}
