package request

import (
	"sort"
	"time"

	"github.com/aircast/hub/pkg/common/models"
)

// Suggest appends a new content suggestion for url. URLs are matched
// case-sensitively; a duplicate fails with ErrDuplicateSuggestion.
func (r *Request) Suggest(url string) error {
	for _, s := range r.Suggestions {
		if s.URL == url {
			return ErrDuplicateSuggestion
		}
	}
	now := time.Now().UTC()
	r.Suggestions = append(r.Suggestions, Suggestion{
		URL:       url,
		Submitted: now,
	})
	r.HasSuggestions = true
	r.Edited = &now
	return nil
}

// Vote increments the vote count of the suggestion matching url by one.
func (r *Request) Vote(url string) error {
	for i := range r.Suggestions {
		if r.Suggestions[i].URL == url {
			r.Suggestions[i].Votes++
			now := time.Now().UTC()
			r.Edited = &now
			return nil
		}
	}
	return ErrSuggestionNotFound
}

// TopSuggestion returns a copy of the suggestion with the highest vote
// count. Ties are broken by first-encountered order. Returns nil when the
// request has no suggestions.
func (r *Request) TopSuggestion() *Suggestion {
	if len(r.Suggestions) == 0 {
		return nil
	}
	top := r.Suggestions[0]
	for _, s := range r.Suggestions[1:] {
		if s.Votes > top.Votes {
			top = s
		}
	}
	return &top
}

// Rank returns all suggestions ordered by descending vote count, stable for
// ties.
func (r *Request) Rank() []Suggestion {
	ranked := make([]Suggestion, len(r.Suggestions))
	copy(ranked, r.Suggestions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})
	return ranked
}

// RankPool pairs each request that has suggestions with its top suggestion
// and orders the result by that suggestion's vote count, descending. Requests
// without suggestions are skipped.
func RankPool(requests []Request) []models.PoolEntry {
	entries := make([]models.PoolEntry, 0, len(requests))
	for i := range requests {
		top := requests[i].TopSuggestion()
		if top == nil {
			continue
		}
		entries = append(entries, models.PoolEntry{
			RequestID:   requests[i].ID,
			URL:         top.URL,
			Votes:       top.Votes,
			Submitted:   top.Submitted,
			TextContent: requests[i].TextContent(),
			Topic:       requests[i].Topic(),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Votes > entries[j].Votes
	})
	return entries
}
