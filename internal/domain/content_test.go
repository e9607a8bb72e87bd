package domain

import "testing"

func TestParseTextContent(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid_plain",
			raw:  `{"text":"Hello","fontSize":10}`,
		},
		{
			name: "valid_with_runs",
			raw:  `{"text":"Hello","fontSize":10,"runs":[{"start":0,"end":2,"bold":true,"fontSize":12.5}]}`,
		},
		{
			name:    "empty_payload",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "not_json",
			raw:     "<p>Hello</p>",
			wantErr: true,
		},
		{
			name:    "no_text",
			raw:     `{"text":"   ","fontSize":10}`,
			wantErr: true,
		},
		{
			name:    "zero_font_size",
			raw:     `{"text":"Hello","fontSize":0}`,
			wantErr: true,
		},
		{
			name:    "inverted_run_range",
			raw:     `{"text":"Hello","fontSize":10,"runs":[{"start":3,"end":1}]}`,
			wantErr: true,
		},
		{
			name:    "negative_run_font",
			raw:     `{"text":"Hello","fontSize":10,"runs":[{"start":0,"end":2,"fontSize":-4}]}`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := ParseTextContent([]byte(tc.raw))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseTextContent(%q) succeeded, want error", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTextContent(%q) error: %v", tc.raw, err)
			}
			if doc.Text == "" {
				t.Fatalf("parsed document has empty text")
			}
		})
	}
}

func TestTextContentSerializeRoundTrip(t *testing.T) {
	size := 14.0
	doc := &TextContent{
		Text:     "Quarterly results",
		FontSize: 10,
		Color:    "#222222",
		Runs: []StyleRun{
			{Start: 0, End: 9, Bold: true, FontSize: &size},
		},
	}

	raw, err := doc.Serialize()
	if err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	back, err := ParseTextContent(raw)
	if err != nil {
		t.Fatalf("ParseTextContent error: %v", err)
	}
	if back.Text != doc.Text || back.FontSize != doc.FontSize {
		t.Fatalf("round trip = %+v, want %+v", back, doc)
	}
	if len(back.Runs) != 1 || !back.Runs[0].Bold || back.Runs[0].FontSize == nil || *back.Runs[0].FontSize != size {
		t.Fatalf("round trip runs = %+v", back.Runs)
	}
}

func TestBackgroundExclusivity(t *testing.T) {
	var a Activity

	a.SetBackgroundImage("https://cdn.example.com/bg.png")
	if a.BackgroundColor != "" {
		t.Fatalf("setting image left color %q", a.BackgroundColor)
	}
	if a.BackgroundImage == "" {
		t.Fatalf("background image not set")
	}

	a.SetBackgroundColor("#FFCC00")
	if a.BackgroundImage != "" {
		t.Fatalf("setting color left image %q", a.BackgroundImage)
	}
	if a.BackgroundColor != "#FFCC00" {
		t.Fatalf("background color = %q", a.BackgroundColor)
	}
}
