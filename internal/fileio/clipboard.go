package fileio

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/inamate/drawboard/internal/document"
)

const ClipboardType = "drawboard/clipboard"

// ClipboardPayload is the text written to the system clipboard on copy.
// Assets holds the data URLs referenced by image elements in the payload.
type ClipboardPayload struct {
	Type     string              `json:"type"`
	Elements []*document.Element `json:"elements"`
	Assets   map[string]string   `json:"assets"`
}

// IsClipboardPayload reports whether text was produced by EncodeClipboard.
func IsClipboardPayload(text string) bool {
	return gjson.Valid(text) && gjson.Get(text, "type").String() == ClipboardType
}

// EncodeClipboard serializes elements and the assets they reference.
func EncodeClipboard(els []*document.Element, assets map[string]string) (string, error) {
	p := ClipboardPayload{
		Type:     ClipboardType,
		Elements: els,
		Assets:   map[string]string{},
	}
	for _, el := range els {
		if el.AssetID == "" {
			continue
		}
		if url, ok := assets[el.AssetID]; ok {
			p.Assets[el.AssetID] = url
		}
	}
	data, err := json.Marshal(&p)
	if err != nil {
		return "", fmt.Errorf("encode clipboard: %w", err)
	}
	return string(data), nil
}

// DecodeClipboard parses a clipboard payload.
func DecodeClipboard(text string) (*ClipboardPayload, error) {
	if !IsClipboardPayload(text) {
		return nil, fmt.Errorf("decode clipboard: %w", ErrWrongType)
	}
	var p ClipboardPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, fmt.Errorf("decode clipboard: %w", err)
	}
	if p.Assets == nil {
		p.Assets = map[string]string{}
	}
	return &p, nil
}
