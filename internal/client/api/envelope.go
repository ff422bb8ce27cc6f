package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The backend wraps payloads in one of three envelope shapes:
//
//	(a) {success, data}                          single resource
//	(b) {success, data, meta}                    paginated
//	(c) {data, current_page, last_page, ...}     legacy paginator
//
// Normalize folds all three into one of exactly two canonical shapes: the
// bare payload, or {"data": payload, "meta": {...}}. Screens never see the
// envelope ambiguity.

// Meta is the canonical pagination block.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// envelopeKind tags the recognized response shapes. Classification happens
// once, at the network boundary; everything downstream sees canonical data.
type envelopeKind int

const (
	envelopeBare envelopeKind = iota
	envelopeWrapped
	envelopeWrappedPage
	envelopeLegacyPage
)

func classify(m map[string]any) envelopeKind {
	_, hasSuccess := m["success"]
	_, hasData := m["data"]
	_, hasMeta := m["meta"]
	_, hasCurrentPage := m["current_page"]

	switch {
	case hasSuccess && hasData && hasMeta:
		return envelopeWrappedPage
	case hasSuccess && hasData:
		return envelopeWrapped
	case hasData && hasCurrentPage:
		return envelopeLegacyPage
	default:
		return envelopeBare
	}
}

// Normalize converts a decoded response body into canonical shape.
// It is idempotent: canonical shapes carry none of the envelope markers,
// so a second pass only re-runs Annotate, which changes nothing.
func Normalize(body any) any {
	m, ok := body.(map[string]any)
	if !ok {
		return Annotate(body)
	}

	switch classify(m) {
	case envelopeWrappedPage:
		return map[string]any{
			"data": Annotate(m["data"]),
			"meta": m["meta"],
		}
	case envelopeWrapped:
		return Annotate(m["data"])
	case envelopeLegacyPage:
		return map[string]any{
			"data": Annotate(m["data"]),
			"meta": map[string]any{
				"current_page": m["current_page"],
				"last_page":    m["last_page"],
				"per_page":     m["per_page"],
				"total":        m["total"],
			},
		}
	default:
		return Annotate(m)
	}
}

// Annotate walks the value and, for every object carrying a hyphenated
// string "id" and no "uuid", copies the id into "uuid". Some backend
// resources only send UUID-shaped values under id; screens uniformly key
// and route by uuid. Maps are modified in place.
func Annotate(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if id, ok := val["id"].(string); ok && strings.Contains(id, "-") {
			if _, has := val["uuid"]; !has {
				val["uuid"] = id
			}
		}
		for _, child := range val {
			Annotate(child)
		}
	case []any:
		for _, item := range val {
			Annotate(item)
		}
	}
	return v
}

// AsPage extracts the payload and pagination block from a canonical
// paginated value. ok is false when v is not the {data, meta} shape.
func AsPage(v any) (data any, meta Meta, ok bool) {
	m, isMap := v.(map[string]any)
	if !isMap {
		return nil, Meta{}, false
	}
	data, hasData := m["data"]
	rawMeta, hasMeta := m["meta"]
	if !hasData || !hasMeta || len(m) != 2 {
		return nil, Meta{}, false
	}
	metaMap, isMap := rawMeta.(map[string]any)
	if !isMap {
		return nil, Meta{}, false
	}
	meta = Meta{
		CurrentPage: toInt(metaMap["current_page"]),
		LastPage:    toInt(metaMap["last_page"]),
		PerPage:     toInt(metaMap["per_page"]),
		Total:       toInt(metaMap["total"]),
	}
	return data, meta, true
}

// HasMore reports whether more pages follow the current one.
func (m Meta) HasMore() bool {
	return m.CurrentPage < m.LastPage
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}

// Decode re-marshals a normalized value into a typed destination. Facades
// use it to hand screens typed records instead of raw maps.
func Decode(v any, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode normalized value: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode normalized value: %w", err)
	}
	return nil
}

// DecodePage decodes the payload of a canonical paginated value into out
// and returns the pagination block.
func DecodePage(v any, out any) (Meta, error) {
	data, meta, ok := AsPage(v)
	if !ok {
		return Meta{}, fmt.Errorf("response is not paginated")
	}
	if err := Decode(data, out); err != nil {
		return Meta{}, err
	}
	return meta, nil
}
