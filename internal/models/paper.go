package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Section statuses. They are advisory labels owned by the client; the
// server only sets them when building a default structure.
const (
	StatusEmpty      = "empty"
	StatusLocked     = "locked"
	StatusCompleted  = "completed"
	StatusGenerating = "generating"
)

// SectionState is the content of one section of an authored paper.
type SectionState struct {
	Content string `json:"content"`
	Status  string `json:"status"`
}

// Document is an authored paper. ID and DocumentName always equal the
// storage name.
//
// On the wire the sections sit next to the identifier fields:
//
//	{"id": "Draft", "documentName": "Draft", "title": {"content": "...", "status": "completed"}}
type Document struct {
	ID           string
	DocumentName string
	Sections     map[string]SectionState
}

// DocumentSummary is one entry of the document list.
type DocumentSummary struct {
	ID           string `json:"id"`
	DocumentName string `json:"documentName"`
}

// Content returns the content of a section, or "" when it is absent.
func (d *Document) Content(key string) string {
	if d == nil || d.Sections == nil {
		return ""
	}
	return d.Sections[key].Content
}

// SetName rewrites both identifier fields.
func (d *Document) SetName(name string) {
	d.ID = name
	d.DocumentName = name
}

func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Sections)+2)
	for k, s := range d.Sections {
		out[k] = s
	}
	out["id"] = d.ID
	out["documentName"] = d.DocumentName
	return json.Marshal(out)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("document must be a JSON object")
	}

	doc := Document{Sections: make(map[string]SectionState, len(raw))}
	for k, v := range raw {
		switch k {
		case "id":
			if err := json.Unmarshal(v, &doc.ID); err != nil {
				return fmt.Errorf("id: %w", err)
			}
		case "documentName":
			if err := json.Unmarshal(v, &doc.DocumentName); err != nil {
				return fmt.Errorf("documentName: %w", err)
			}
		default:
			// Only objects are sections; scalar extras are ignored.
			if !bytes.HasPrefix(bytes.TrimSpace(v), []byte("{")) {
				continue
			}
			var s SectionState
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("section %s: %w", k, err)
			}
			doc.Sections[k] = s
		}
	}
	*d = doc
	return nil
}
