package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/contentpeak/opplens/pkg/opplens/idea"
	"github.com/contentpeak/opplens/pkg/opplens/internalerr"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
	"github.com/contentpeak/opplens/pkg/opplens/store"
)

// Store is an in-memory implementation of store.Store for tests and
// ephemeral runs.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun inserts or replaces a run, keyed by ID.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return errors.New("memstore: run id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a stored run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("%w: run %s", internalerr.ErrNotFound, id)
	}
	return copyRun(r), nil
}

// ListRuns returns stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	infos := make([]store.RunInfo, 0, len(s.runs))
	for _, r := range s.runs {
		infos = append(infos, store.RunInfo{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Source:    r.Source,
			Keywords:  len(r.Keywords),
			Ideas:     len(r.Ideas),
			TimedOut:  r.TimedOut,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.After(infos[j].CreatedAt)
		}
		return infos[i].ID > infos[j].ID
	})
	if len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}

// DeleteRun removes a stored run.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return fmt.Errorf("%w: run %s", internalerr.ErrNotFound, id)
	}
	delete(s.runs, id)
	return nil
}

func copyRun(r store.Run) store.Run {
	out := r
	out.Keywords = copyKeywords(r.Keywords)
	out.Ideas = make([]idea.ContentIdea, len(r.Ideas))
	for i, it := range r.Ideas {
		out.Ideas[i] = copyIdea(it)
	}
	return out
}

func copyIdea(it idea.ContentIdea) idea.ContentIdea {
	out := it
	out.PrimaryKeywords = copyKeywords(it.PrimaryKeywords)
	out.SecondaryKeywords = copyKeywords(it.SecondaryKeywords)
	out.Tips = make([]string, len(it.Tips))
	copy(out.Tips, it.Tips)
	return out
}

func copyKeywords(in []keyword.Keyword) []keyword.Keyword {
	out := make([]keyword.Keyword, len(in))
	copy(out, in)
	return out
}
