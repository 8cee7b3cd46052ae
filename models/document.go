package models

import (
	"encoding/json"
	"fmt"
)

// Document is one search hit returned by the retrieval backend.
// Only title and summary are interpreted; every other field is carried through untouched.
type Document struct {
	Title   string                     `json:"title"`
	Summary string                     `json:"summary"`
	Extra   map[string]json.RawMessage `json:"-"`
}

func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.Extra)+2)
	for k, v := range d.Extra {
		out[k] = v
	}
	title, err := json.Marshal(d.Title)
	if err != nil {
		return nil, err
	}
	summary, err := json.Marshal(d.Summary)
	if err != nil {
		return nil, err
	}
	out["title"] = title
	out["summary"] = summary
	return json.Marshal(out)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Document{}
	if v, ok := raw["title"]; ok {
		if err := json.Unmarshal(v, &d.Title); err != nil {
			return fmt.Errorf("document title: %w", err)
		}
		delete(raw, "title")
	}
	if v, ok := raw["summary"]; ok {
		if err := json.Unmarshal(v, &d.Summary); err != nil {
			return fmt.Errorf("document summary: %w", err)
		}
		delete(raw, "summary")
	}
	if len(raw) > 0 {
		d.Extra = raw
	}
	return nil
}

// EncodeDocuments serializes a document list into the content of a documents record.
func EncodeDocuments(docs []Document) (string, error) {
	if docs == nil {
		docs = []Document{}
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("encode documents: %w", err)
	}
	return string(b), nil
}

// DecodeDocuments parses the content of a documents record.
func DecodeDocuments(content string) ([]Document, error) {
	var docs []Document
	if err := json.Unmarshal([]byte(content), &docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return docs, nil
}
