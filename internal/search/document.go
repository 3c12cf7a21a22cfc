// Package search keeps a bleve full-text index in sync with catalog titles
// and serves keyword reads from it. The index is a derived, eventually
// consistent projection; the record store stays authoritative.
package search

import (
	"strconv"
	"time"

	"github.com/toonhive/toonhive/internal/models"
)

// Document is the projection of a title held by the index. It is keyed by
// the title id and versioned by the title's update timestamp so retried or
// out-of-order upserts converge.
type Document struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Creator   string `json:"creator"`
	Genre     string `json:"genre"`
	Day       string `json:"day"`
	UpdatedAt string `json:"updated_at"`
}

// DocumentFromTitle derives the index projection of a title.
func DocumentFromTitle(title *models.Title) *Document {
	return &Document{
		ID:        DocumentID(title.ID),
		Name:      normalizeText(title.Name),
		Creator:   normalizeText(title.Creator),
		Genre:     normalizeText(title.Genre),
		Day:       string(title.Day),
		UpdatedAt: title.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// DocumentID renders a title id as an index document key.
func DocumentID(titleID uint) string {
	return strconv.FormatUint(uint64(titleID), 10)
}

// TitleID parses an index document key back into a title id.
func TitleID(docID string) (uint, error) {
	id, err := strconv.ParseUint(docID, 10, 64)
	return uint(id), err
}

func (d *Document) toMap() map[string]any {
	return map[string]any{
		"name":       d.Name,
		"creator":    d.Creator,
		"genre":      d.Genre,
		"day":        d.Day,
		"updated_at": d.UpdatedAt,
	}
}

func documentFromFields(id string, fields map[string]any) Document {
	str := func(key string) string {
		if v, ok := fields[key].(string); ok {
			return v
		}
		return ""
	}
	return Document{
		ID:        id,
		Name:      str("name"),
		Creator:   str("creator"),
		Genre:     str("genre"),
		Day:       str("day"),
		UpdatedAt: str("updated_at"),
	}
}
