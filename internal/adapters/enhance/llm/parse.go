package llm

import (
	"encoding/json"
	"strings"

	"whatsnew/internal/core/wnf"
	perr "whatsnew/internal/platform/errors"
	synthdom "whatsnew/internal/services/synth/domain"
)

// response is the strict JSON shape the prompt demands
type response struct {
	Categories []struct {
		ID    string `json:"id"`
		Items []struct {
			Text     string   `json:"text"`
			Refs     []string `json:"refs"`
			Scope    string   `json:"scope"`
			Breaking bool     `json:"breaking"`
		} `json:"items"`
	} `json:"categories"`
	Version     string `json:"version"`
	HasBreaking bool   `json:"hasBreakingChanges"`
	Notes       []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"notes"`
}

var noteTypes = map[string]wnf.NoteType{
	"upgrade":     wnf.NoteUpgrade,
	"migration":   wnf.NoteMigration,
	"deprecation": wnf.NoteDeprecation,
	"info":        wnf.NoteInfo,
}

// parseResponse decodes a model reply. Category ids outside the closed set
// map to other; duplicate ids merge; an answer with no items is an error so
// the pipeline keeps the deterministic result
func parseResponse(out string) (*synthdom.Enhancement, error) {
	s := extractJSON(out)
	if s == "" {
		return nil, perr.JSONErrf("llm reply contains no json object")
	}

	var resp response
	if err := json.Unmarshal([]byte(s), &resp); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "llm reply is not valid json")
	}

	grouped := make(map[wnf.CategoryID][]wnf.ChangeItem)
	var order []wnf.CategoryID
	for _, c := range resp.Categories {
		id := wnf.CategoryID(strings.ToLower(strings.TrimSpace(c.ID)))
		if !id.Valid() {
			id = wnf.CategoryOther
		}
		for _, it := range c.Items {
			text := strings.TrimSpace(it.Text)
			if text == "" {
				continue
			}
			if _, seen := grouped[id]; !seen {
				order = append(order, id)
			}
			grouped[id] = append(grouped[id], wnf.ChangeItem{
				Text:     text,
				Refs:     it.Refs,
				Scope:    strings.TrimSpace(it.Scope),
				Breaking: it.Breaking || id == wnf.CategoryBreaking,
			})
		}
	}

	cats := make([]wnf.Category, 0, len(order))
	for _, id := range order {
		cats = append(cats, wnf.NewCategory(id, grouped[id]))
	}
	if wnf.CountItems(cats) == 0 {
		return nil, perr.Upstreamf("llm returned no items")
	}
	wnf.SortCategories(cats)

	enh := &synthdom.Enhancement{
		Categories:  cats,
		Version:     strings.TrimSpace(resp.Version),
		HasBreaking: resp.HasBreaking,
	}
	for _, n := range resp.Notes {
		text := strings.TrimSpace(n.Text)
		if text == "" {
			continue
		}
		typ, ok := noteTypes[strings.ToLower(strings.TrimSpace(n.Type))]
		if !ok {
			typ = wnf.NoteInfo
		}
		enh.Notes = append(enh.Notes, wnf.Note{Type: typ, Text: text})
	}
	return enh, nil
}

// extractJSON peels a markdown fence wrapper and any surrounding prose down
// to the outermost JSON object
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.HasPrefix(s, "{") {
			// drop the language tag line
			s = s[i+1:]
		}
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
