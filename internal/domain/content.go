package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TextContent is the rich-text document stored on TEXT elements: plain text
// plus per-character style runs. Font sizes (the document default and any
// per-run override) are percentages of canvas WIDTH, the same normalization
// applied to element geometry, so text scales with the canvas.
type TextContent struct {
	Text       string     `json:"text"`
	FontSize   float64    `json:"fontSize"`
	FontFamily string     `json:"fontFamily,omitempty"`
	Color      string     `json:"color,omitempty"`
	Align      string     `json:"align,omitempty"`
	Runs       []StyleRun `json:"runs,omitempty"`
}

// StyleRun styles the half-open character range [Start, End).
type StyleRun struct {
	Start     int      `json:"start"`
	End       int      `json:"end"`
	Bold      bool     `json:"bold,omitempty"`
	Italic    bool     `json:"italic,omitempty"`
	Underline bool     `json:"underline,omitempty"`
	Color     string   `json:"color,omitempty"`
	FontSize  *float64 `json:"fontSize,omitempty"`
}

// ParseTextContent decodes a serialized rich-text document. A payload that
// does not decode, or decodes to something unrenderable, is an error the
// caller is expected to skip over rather than fail the whole slide on.
func ParseTextContent(raw []byte) (*TextContent, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty text content payload")
	}
	var doc TextContent
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode text content: %w", err)
	}
	if strings.TrimSpace(doc.Text) == "" && len(doc.Runs) == 0 {
		return nil, fmt.Errorf("text content has no text")
	}
	if doc.FontSize <= 0 {
		return nil, fmt.Errorf("text content has non-positive font size %v", doc.FontSize)
	}
	for i, run := range doc.Runs {
		if run.Start < 0 || run.End < run.Start {
			return nil, fmt.Errorf("style run %d has invalid range [%d, %d)", i, run.Start, run.End)
		}
		if run.FontSize != nil && *run.FontSize <= 0 {
			return nil, fmt.Errorf("style run %d has non-positive font size %v", i, *run.FontSize)
		}
	}
	return &doc, nil
}

// Serialize encodes the document for persistence.
func (tc *TextContent) Serialize() ([]byte, error) {
	raw, err := json.Marshal(tc)
	if err != nil {
		return nil, fmt.Errorf("encode text content: %w", err)
	}
	return raw, nil
}
