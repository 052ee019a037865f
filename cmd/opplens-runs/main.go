package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/contentpeak/opplens/pkg/opplens/store"
	"github.com/contentpeak/opplens/pkg/opplens/store/sqlite"
)

type runInfoJSON struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Source    string `json:"source"`
	Keywords  int    `json:"keywords"`
	Ideas     int    `json:"ideas"`
	TimedOut  bool   `json:"timed_out,omitempty"`
}

type runJSON struct {
	ID        string        `json:"id"`
	CreatedAt string        `json:"created_at"`
	Source    string        `json:"source"`
	Rows      rowsJSON      `json:"rows"`
	Summary   summaryJSON   `json:"summary"`
	TimedOut  bool          `json:"timed_out,omitempty"`
	Keywords  []keywordJSON `json:"keywords"`
	Ideas     []ideaJSON    `json:"ideas,omitempty"`
}

type rowsJSON struct {
	Total   int `json:"total"`
	Kept    int `json:"kept"`
	Dropped int `json:"dropped"`
}

type summaryJSON struct {
	Total     int `json:"total"`
	High      int `json:"high"`
	Medium    int `json:"medium"`
	Low       int `json:"low"`
	QuickWins int `json:"quick_wins"`
}

type keywordJSON struct {
	Keyword     string  `json:"keyword"`
	Volume      int     `json:"volume"`
	Difficulty  float64 `json:"difficulty"`
	CPC         float64 `json:"cpc"`
	Intent      string  `json:"intent"`
	Opportunity float64 `json:"opportunity"`
	Category    string  `json:"category"`
	QuickWin    bool    `json:"quick_win,omitempty"`
}

type ideaJSON struct {
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
		dbPath = flag.String("db", "", "SQLite database (required)")
		show   = flag.String("show", "", "Print one run in full by id")
		del    = flag.String("delete", "", "Delete one run by id")
		limit  = flag.Int("limit", 20, "Runs to list")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}

	ctx := context.Background()

	st, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer st.Close()

	switch {
	case *del != "":
		if err := st.DeleteRun(ctx, *del); err != nil {
			log.Fatalf("delete run: %v", err)
		}
		log.Printf("Deleted run %s", *del)

	case *show != "":
		run, err := st.GetRun(ctx, *show)
		if err != nil {
			log.Fatalf("get run: %v", err)
		}
		printJSON(buildRun(run))

	default:
		infos, err := st.ListRuns(ctx, *limit)
		if err != nil {
			log.Fatalf("list runs: %v", err)
		}
		out := make([]runInfoJSON, 0, len(infos))
		for _, info := range infos {
			out = append(out, runInfoJSON{
				ID:        info.ID,
				CreatedAt: info.CreatedAt.Format(time.RFC3339),
				Source:    info.Source,
				Keywords:  info.Keywords,
				Ideas:     info.Ideas,
				TimedOut:  info.TimedOut,
			})
		}
		printJSON(out)
	}
}

func buildRun(run store.Run) runJSON {
	r := runJSON{
		ID:        run.ID,
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
		Source:    run.Source,
		TimedOut:  run.TimedOut,
		Rows: rowsJSON{
			Total:   run.RowsTotal,
			Kept:    run.RowsKept,
			Dropped: run.RowsDropped,
		},
		Summary: summaryJSON{
			Total:     run.Summary.Total,
			High:      run.Summary.High,
			Medium:    run.Summary.Medium,
			Low:       run.Summary.Low,
			QuickWins: run.Summary.QuickWins,
		},
	}

	for _, k := range run.Keywords {
		r.Keywords = append(r.Keywords, keywordJSON{
			Keyword:     k.Text,
			Volume:      k.SearchVolume,
			Difficulty:  k.Difficulty,
			CPC:         k.CPC,
			Intent:      string(k.Intent),
			Opportunity: k.OpportunityScore,
			Category:    string(k.Category),
			QuickWin:    k.QuickWin,
		})
	}

	for _, id := range run.Ideas {
		entry := ideaJSON{
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

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	fmt.Println(string(out))
}
