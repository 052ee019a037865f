package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contentpeak/opplens/pkg/opplens/classify"
	"github.com/contentpeak/opplens/pkg/opplens/idea"
	"github.com/contentpeak/opplens/pkg/opplens/internalerr"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
	"github.com/contentpeak/opplens/pkg/opplens/store"
)

func sampleRun(id string, created time.Time) store.Run {
	keywords := []keyword.Keyword{
		{
			Text:             "best project management tools",
			SearchVolume:     12000,
			Difficulty:       35,
			CPC:              4.5,
			RawIntents:       "Informational",
			Intent:           keyword.Informational,
			OpportunityScore: 78.5,
			Category:         keyword.CategoryHigh,
		},
		{
			Text:             "project tracker app",
			SearchVolume:     800,
			Difficulty:       20,
			CPC:              2.0,
			RawIntents:       "Commercial",
			Intent:           keyword.Commercial,
			OpportunityScore: 65.2,
			Category:         keyword.CategoryMedium,
			QuickWin:         true,
		},
	}

	return store.Run{
		ID:          id,
		CreatedAt:   created,
		Source:      "export.tsv",
		RowsTotal:   3,
		RowsKept:    2,
		RowsDropped: 1,
		Summary:     store.Summary{Total: 2, High: 1, Medium: 1, QuickWins: 1},
		Keywords:    keywords,
		Ideas: []idea.ContentIdea{
			{
				ID:                "01JXYZIDEA0000000000000000",
				Title:             "Best Project Management Tools: Top Picks Ranked",
				Format:            classify.FormatListArticle,
				PrimaryKeywords:   keywords[:1],
				SecondaryKeywords: keywords[1:],
				SEOScore:          72.0,
				TrafficScore:      68.0,
				TotalSearchVolume: 12800,
				AvgDifficulty:     27.5,
				AvgCPC:            3.25,
				Tips:              []string{"tip one", "tip two", "tip three"},
				Outline:           "## Intro\n## Picks\n",
			},
		},
	}
}

func TestSaveRun_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	want := sampleRun("01JXYZRUN00000000000000001", time.Now().UTC())
	if err := s.SaveRun(ctx, want); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.GetRun(ctx, want.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}

	if got.ID != want.ID || got.Source != want.Source {
		t.Errorf("run identity mismatch: got %q/%q", got.ID, got.Source)
	}
	if got.Summary != want.Summary {
		t.Errorf("summary mismatch: got %+v, want %+v", got.Summary, want.Summary)
	}
	if got.RowsTotal != 3 || got.RowsKept != 2 || got.RowsDropped != 1 {
		t.Errorf("row counts mismatch: %d/%d/%d", got.RowsTotal, got.RowsKept, got.RowsDropped)
	}
	if len(got.Keywords) != 2 {
		t.Fatalf("expected 2 keywords, got %d", len(got.Keywords))
	}
	if got.Keywords[0] != want.Keywords[0] {
		t.Errorf("keyword mismatch: got %+v", got.Keywords[0])
	}
	if len(got.Ideas) != 1 {
		t.Fatalf("expected 1 idea, got %d", len(got.Ideas))
	}
	if got.Ideas[0].Title != want.Ideas[0].Title || got.Ideas[0].Format != want.Ideas[0].Format {
		t.Errorf("idea mismatch: got %q (%s)", got.Ideas[0].Title, got.Ideas[0].Format)
	}
	if len(got.Ideas[0].Tips) != 3 {
		t.Errorf("expected 3 tips, got %d", len(got.Ideas[0].Tips))
	}
}

func TestSaveRun_RequiresID(t *testing.T) {
	s := New()
	if err := s.SaveRun(context.Background(), store.Run{}); err == nil {
		t.Fatal("expected error for run without ID")
	}
}

func TestSaveRun_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := sampleRun("01JXYZRUN00000000000000002", time.Now().UTC())
	if err := s.SaveRun(ctx, r); err != nil {
		t.Fatalf("first SaveRun: %v", err)
	}

	r.Source = "second-export.tsv"
	r.Keywords = r.Keywords[:1]
	if err := s.SaveRun(ctx, r); err != nil {
		t.Fatalf("second SaveRun: %v", err)
	}

	got, err := s.GetRun(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Source != "second-export.tsv" {
		t.Errorf("source should be updated, got %q", got.Source)
	}
	if len(got.Keywords) != 1 {
		t.Errorf("expected 1 keyword after replace, got %d", len(got.Keywords))
	}
}

func TestSaveRun_CopiesInput(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := sampleRun("01JXYZRUN00000000000000003", time.Now().UTC())
	if err := s.SaveRun(ctx, r); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	// Mutating the caller's slices must not reach the stored copy.
	r.Keywords[0].Text = "mutated"
	r.Ideas[0].Tips[0] = "mutated"

	got, err := s.GetRun(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Keywords[0].Text == "mutated" {
		t.Error("stored keywords should be isolated from caller mutation")
	}
	if got.Ideas[0].Tips[0] == "mutated" {
		t.Error("stored tips should be isolated from caller mutation")
	}

	// Mutating a retrieved copy must not reach the stored copy either.
	got.Keywords[0].Text = "mutated-read"
	again, err := s.GetRun(ctx, r.ID)
	if err != nil {
		t.Fatalf("second GetRun: %v", err)
	}
	if again.Keywords[0].Text == "mutated-read" {
		t.Error("retrieved runs should be copies")
	}
}

func TestGetRun_Missing(t *testing.T) {
	s := New()
	_, err := s.GetRun(context.Background(), "no-such-run")
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{
		"01JXYZRUN0000000000000000A",
		"01JXYZRUN0000000000000000B",
		"01JXYZRUN0000000000000000C",
	} {
		r := sampleRun(id, base.Add(time.Duration(i)*time.Hour))
		if err := s.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun %s: %v", id, err)
		}
	}

	infos, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(infos))
	}
	if infos[0].ID != "01JXYZRUN0000000000000000C" || infos[2].ID != "01JXYZRUN0000000000000000A" {
		t.Errorf("runs should list newest first, got %v", []string{infos[0].ID, infos[1].ID, infos[2].ID})
	}
	if infos[0].Keywords != 2 || infos[0].Ideas != 1 {
		t.Errorf("listing counts mismatch: %d keywords, %d ideas", infos[0].Keywords, infos[0].Ideas)
	}

	limited, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 runs with limit=2, got %d", len(limited))
	}
}

func TestDeleteRun_RemovesRun(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := sampleRun("01JXYZRUN00000000000000004", time.Now().UTC())
	if err := s.SaveRun(ctx, r); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	if err := s.DeleteRun(ctx, r.ID); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if _, err := s.GetRun(ctx, r.ID); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteRun(ctx, r.ID); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}
