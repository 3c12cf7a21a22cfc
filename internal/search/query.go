package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/blevesearch/bleve/v2"
)

// PageSize is the fixed page size of keyword search results.
const PageSize = 10

// Result is one page of search hits, ordered by index relevance.
type Result struct {
	Documents  []Document `json:"items"`
	Total      uint64     `json:"total"`
	Page       int        `json:"page"`
	Size       int        `json:"size"`
	TotalPages int        `json:"totalPages"`
}

// Search matches keyword against name, creator and genre and returns one
// page of documents in relevance order. Hits with near-equal scores are
// reordered by edit distance of their name to the keyword so near-exact
// name matches surface first.
func (s *Synchronizer) Search(ctx context.Context, keyword string, page int) (*Result, error) {
	kw := normalizeText(keyword)
	if page < 0 {
		page = 0
	}

	nameMatch := bleve.NewMatchQuery(kw)
	nameMatch.SetField("name")
	nameMatch.SetBoost(2.0)

	nameFuzzy := bleve.NewMatchQuery(kw)
	nameFuzzy.SetField("name")
	nameFuzzy.SetFuzziness(1)

	namePrefix := bleve.NewPrefixQuery(kw)
	namePrefix.SetField("name")

	creatorMatch := bleve.NewMatchQuery(kw)
	creatorMatch.SetField("creator")

	genreMatch := bleve.NewMatchQuery(kw)
	genreMatch.SetField("genre")

	q := bleve.NewDisjunctionQuery(nameMatch, nameFuzzy, namePrefix, creatorMatch, genreMatch)

	req := bleve.NewSearchRequestOptions(q, PageSize, page*PageSize, false)
	req.Fields = []string{"name", "creator", "genre", "day", "updated_at"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	type scoredDoc struct {
		doc   Document
		score float64
	}
	scored := make([]scoredDoc, 0, len(res.Hits))
	for _, hit := range res.Hits {
		scored = append(scored, scoredDoc{
			doc:   documentFromFields(hit.ID, hit.Fields),
			score: hit.Score,
		})
	}

	// Tie-break near-equal relevance scores by edit distance to the keyword.
	const epsilon = 0.01
	sort.SliceStable(scored, func(i, j int) bool {
		if math.Abs(scored[i].score-scored[j].score) > epsilon {
			return scored[i].score > scored[j].score
		}
		di := levenshtein.ComputeDistance(kw, scored[i].doc.Name)
		dj := levenshtein.ComputeDistance(kw, scored[j].doc.Name)
		return di < dj
	})

	docs := make([]Document, len(scored))
	for i, sd := range scored {
		docs[i] = sd.doc
	}

	totalPages := int(res.Total) / PageSize
	if int(res.Total)%PageSize != 0 {
		totalPages++
	}
	return &Result{
		Documents:  docs,
		Total:      res.Total,
		Page:       page,
		Size:       PageSize,
		TotalPages: totalPages,
	}, nil
}
