// Package opplens analyzes keyword research exports. It normalizes raw
// export rows into keyword records, scores each keyword's content
// opportunity, suggests affiliate network matches, and clusters the
// strongest keywords into content ideas.
package opplens

import (
	"context"
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/contentpeak/opplens/pkg/opplens/affiliate"
	"github.com/contentpeak/opplens/pkg/opplens/classify"
	"github.com/contentpeak/opplens/pkg/opplens/cluster"
	"github.com/contentpeak/opplens/pkg/opplens/config"
	"github.com/contentpeak/opplens/pkg/opplens/idea"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
	"github.com/contentpeak/opplens/pkg/opplens/normalize"
	"github.com/contentpeak/opplens/pkg/opplens/score"
)

// Default sizing for the scoring worker pool.
const (
	defaultWorkers   = 4
	defaultChunkSize = 64
)

// Engine is the keyword analysis facade. It holds no per-run state and is
// safe for concurrent use.
type Engine struct {
	scorer     *score.Scorer
	classifier *classify.Classifier
	matcher    *affiliate.Matcher
	clusterer  *cluster.Clusterer
	workers    int
	chunkSize  int
}

// Options configures an Engine instance.
type Options struct {
	Config    config.Config     // zero value takes the built-in defaults
	Catalog   affiliate.Catalog // empty takes affiliate.DefaultCatalog()
	Workers   int               // scoring goroutines, default 4
	ChunkSize int               // keywords per scoring chunk, default 64
}

// New validates the configuration and builds an Engine. Invalid settings
// fail here, wrapping internalerr.ErrInvalidConfig, before any rows are
// processed.
func New(opts Options) (*Engine, error) {
	scorer, err := score.NewScorer(opts.Config.ScorerOptions())
	if err != nil {
		return nil, err
	}
	clusterer, err := cluster.NewClusterer(opts.Config.ClusterConfig())
	if err != nil {
		return nil, err
	}

	catalog := opts.Catalog
	if catalog.Len() == 0 {
		catalog = affiliate.DefaultCatalog()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	return &Engine{
		scorer:     scorer,
		classifier: classify.NewClassifier(opts.Config.Products),
		matcher:    affiliate.NewMatcher(catalog),
		clusterer:  clusterer,
		workers:    workers,
		chunkSize:  chunkSize,
	}, nil
}

// Summary counts a scored batch by category. High+Medium+Low always equals
// Total; QuickWins overlaps the categories.
type Summary struct {
	Total     int
	High      int
	Medium    int
	Low       int
	QuickWins int
}

// Result is the output of one Analyze pass.
type Result struct {
	RunID        string
	Keywords     []keyword.Keyword   // input order, scored
	Matches      [][]affiliate.Match // Matches[i] pairs with Keywords[i]
	Ideas        []idea.ContentIdea
	ClusterStats cluster.Stats
	Report       normalize.Report
	Summary      Summary
	TimedOut     bool
}

// Analyze runs the whole pipeline over one export: normalize, score, match
// affiliates, cluster, and synthesize ideas. Scoring runs on a worker pool
// over fixed-size chunks; when ctx expires mid-run the result carries the
// scored keywords from completed chunks in input order, TimedOut is set,
// and the match and idea stages are skipped.
func (e *Engine) Analyze(ctx context.Context, header []string, rows [][]string) (Result, error) {
	keywords, report, err := normalize.Normalize(header, rows)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		RunID:  newRunID(),
		Report: report,
	}

	res.Keywords, res.TimedOut = e.scoreAll(ctx, keywords)
	if !res.TimedOut && ctx.Err() != nil {
		res.TimedOut = true
	}
	res.Summary = summarize(res.Keywords)
	if res.TimedOut {
		return res, nil
	}

	res.Matches = e.matchAll(res.Keywords)
	res.Ideas, res.ClusterStats = e.SynthesizeIdeas(res.Keywords)
	return res, nil
}

// Normalize converts raw export rows into keyword records.
func (e *Engine) Normalize(header []string, rows [][]string) ([]keyword.Keyword, normalize.Report, error) {
	return normalize.Normalize(header, rows)
}

// Score returns a scored copy of k.
func (e *Engine) Score(k keyword.Keyword) keyword.Keyword {
	return e.scorer.Score(k)
}

// ClassifyFormat picks the content format for a keyword text.
func (e *Engine) ClassifyFormat(text string) classify.Format {
	return e.classifier.Classify(text)
}

// MatchAffiliates returns the strongest affiliate pairings for a scored
// keyword.
func (e *Engine) MatchAffiliates(k keyword.Keyword) []affiliate.Match {
	return e.matcher.Match(k, e.classifier.Classify(k.Text))
}

// SynthesizeIdeas clusters scored keywords and aggregates each cluster into
// a content idea.
func (e *Engine) SynthesizeIdeas(keywords []keyword.Keyword) ([]idea.ContentIdea, cluster.Stats) {
	raws, stats := e.clusterer.Cluster(keywords)
	builder := idea.NewBuilder(e.classifier, e.scorer)
	return builder.BuildAll(raws, keywords), stats
}

// scoreAll scores keywords chunk by chunk on a worker pool, writing into a
// pre-allocated slice so output order equals input order. The feed stops
// when ctx expires; workers finish the chunk they hold, so the reported
// prefix only ever contains fully scored chunks.
func (e *Engine) scoreAll(ctx context.Context, keywords []keyword.Keyword) ([]keyword.Keyword, bool) {
	out := make([]keyword.Keyword, len(keywords))
	numChunks := (len(keywords) + e.chunkSize - 1) / e.chunkSize

	chunks := make(chan int)
	done := make(chan int, numChunks)

	workers := e.workers
	if workers > numChunks {
		workers = numChunks
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for start := range chunks {
				end := start + e.chunkSize
				if end > len(keywords) {
					end = len(keywords)
				}
				for i := start; i < end; i++ {
					out[i] = e.scorer.Score(keywords[i])
				}
				done <- start
			}
		}()
	}

	timedOut := false
feed:
	for start := 0; start < len(keywords); start += e.chunkSize {
		select {
		case <-ctx.Done():
			timedOut = true
			break feed
		case chunks <- start:
		}
	}
	close(chunks)
	wg.Wait()
	close(done)

	if !timedOut {
		return out, false
	}

	completed := make(map[int]bool, numChunks)
	for start := range done {
		completed[start] = true
	}

	// Keep the contiguous completed prefix.
	keep := 0
	for start := 0; start < len(keywords); start += e.chunkSize {
		if !completed[start] {
			break
		}
		end := start + e.chunkSize
		if end > len(keywords) {
			end = len(keywords)
		}
		keep = end
	}
	return out[:keep], true
}

func (e *Engine) matchAll(keywords []keyword.Keyword) [][]affiliate.Match {
	matches := make([][]affiliate.Match, len(keywords))
	for i, k := range keywords {
		matches[i] = e.matcher.Match(k, e.classifier.Classify(k.Text))
	}
	return matches
}

func summarize(keywords []keyword.Keyword) Summary {
	s := Summary{Total: len(keywords)}
	for _, k := range keywords {
		switch k.Category {
		case keyword.CategoryHigh:
			s.High++
		case keyword.CategoryMedium:
			s.Medium++
		default:
			s.Low++
		}
		if k.QuickWin {
			s.QuickWins++
		}
	}
	return s
}

func newRunID() string {
	return ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.Reader, 0)).String()
}
