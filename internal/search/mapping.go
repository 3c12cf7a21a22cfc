package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the bleve mapping for title documents. Name,
// creator and genre are full-text searchable; day and updated_at are exact
// keywords, stored so results can be rendered straight from the index.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = simple.Name

	docMapping := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = simple.Name
	nameField.Store = true
	docMapping.AddFieldMappingsAt("name", nameField)

	creatorField := bleve.NewTextFieldMapping()
	creatorField.Analyzer = simple.Name
	creatorField.Store = true
	docMapping.AddFieldMappingsAt("creator", creatorField)

	genreField := bleve.NewTextFieldMapping()
	genreField.Analyzer = simple.Name
	genreField.Store = true
	docMapping.AddFieldMappingsAt("genre", genreField)

	dayField := bleve.NewTextFieldMapping()
	dayField.Analyzer = keyword.Name
	dayField.Store = true
	docMapping.AddFieldMappingsAt("day", dayField)

	versionField := bleve.NewTextFieldMapping()
	versionField.Analyzer = keyword.Name
	versionField.Store = true
	docMapping.AddFieldMappingsAt("updated_at", versionField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
