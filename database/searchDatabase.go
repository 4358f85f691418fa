package database

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve"

	"github.com/drummonds/userportal/navigation"
)

type navigationDoc struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// SetupSearchDB builds the in-memory quick-jump index over the navigation items
func SetupSearchDB(items []navigation.Item) (bleve.Index, error) {
	Logger.Info("Creating bleve index mapping")
	mapping := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		Logger.Error("Failed to create bleve index", "error", err)
		return nil, err
	}
	batch := index.NewBatch()
	for _, item := range items {
		doc := navigationDoc{ID: item.ID, Label: item.Label, Href: item.Href}
		if err := batch.Index(item.ID, doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to index %s: %w", item.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to index navigation: %w", err)
	}
	Logger.Info("Navigation search index ready", "items", len(items))
	return index, nil
}

// SearchNavigation returns the ids of items matching term, best match first
func SearchNavigation(index bleve.Index, term string, limit int) ([]string, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []string{}, nil
	}
	label := bleve.NewMatchQuery(term)
	label.SetField("label")
	label.SetFuzziness(1)
	labelPrefix := bleve.NewPrefixQuery(term)
	labelPrefix.SetField("label")
	idPrefix := bleve.NewPrefixQuery(term)
	idPrefix.SetField("id")

	request := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(label, labelPrefix, idPrefix), limit, 0, false)
	result, err := index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("navigation search failed: %w", err)
	}
	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
