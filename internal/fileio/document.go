// Package fileio reads and writes the JSON file formats: boards, libraries
// and clipboard payloads.
package fileio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/migrate"
)

var (
	// ErrNotJSON is returned for input that is not a JSON object.
	ErrNotJSON = errors.New("not a json object")

	// ErrWrongType is returned when the "type" field names another format.
	ErrWrongType = errors.New("unexpected file type")
)

// Info is what can be learnt from a board file without decoding it.
type Info struct {
	Type    string
	Version string
	Title   string
	Pages   int
}

// Sniff inspects the header fields of a board file.
func Sniff(data []byte) (Info, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return Info{}, ErrNotJSON
	}
	res := gjson.GetManyBytes(data, "type", "version", "title", "pages.#")
	return Info{
		Type:    res[0].String(),
		Version: res[1].String(),
		Title:   res[2].String(),
		Pages:   int(res[3].Int()),
	}, nil
}

// ParseDocument decodes a board, upgrading it to the current version. Any
// failure wraps migrate.ErrMigration; the caller's live document is never
// involved.
func ParseDocument(data []byte) (*document.Document, error) {
	info, err := Sniff(data)
	if err != nil {
		return nil, malformed(err)
	}
	if info.Type != "" && info.Type != document.DocumentType {
		return nil, malformed(fmt.Errorf("%w: %q", ErrWrongType, info.Type))
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, malformed(err)
	}
	upgraded, err := migrate.Document(raw)
	if err != nil {
		return nil, err
	}

	buf, err := json.Marshal(upgraded)
	if err != nil {
		return nil, malformed(err)
	}
	var doc document.Document
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, malformed(err)
	}
	doc.Type = document.DocumentType
	doc.Normalize()
	if len(doc.Pages) == 0 {
		return nil, malformed(errors.New("board has no pages"))
	}
	return &doc, nil
}

// LoadDocument reads and parses a board from r.
func LoadDocument(r io.Reader) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read board: %w: %w", document.ErrTransientIO, err)
	}
	return ParseDocument(data)
}

// MarshalDocument encodes doc in the persisted format.
func MarshalDocument(doc *document.Document) ([]byte, error) {
	out := *doc
	out.Type = document.DocumentType
	out.Version = document.CurrentVersion
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode board: %w", err)
	}
	return data, nil
}

// SaveDocument writes doc to w.
func SaveDocument(w io.Writer, doc *document.Document) error {
	data, err := MarshalDocument(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write board: %w: %w", document.ErrTransientIO, err)
	}
	return nil
}

func malformed(err error) error {
	return &migrate.Error{From: migrate.OldestVersion, Step: "decode", Err: err}
}
