package theme

// Palette is the set of CSS colors the page is styled with.
type Palette struct {
	Primary        string `json:"primary"`
	Secondary      string `json:"secondary"`
	Accent         string `json:"accent"`
	Background     string `json:"background"`
	BackgroundDark string `json:"background-dark"`
	Text           string `json:"text"`
	TextMuted      string `json:"text-muted"`
	Border         string `json:"border"`
	Glow           string `json:"glow"`
	Error          string `json:"error"`
	Warning        string `json:"warning"`
	Success        string `json:"success"`
}

var neon = Palette{
	Primary:        "#00ff41",
	Secondary:      "#ff0080",
	Accent:         "#00d4ff",
	Background:     "#0a0a0a",
	BackgroundDark: "#050505",
	Text:           "#ffffff",
	TextMuted:      "#b0b0b0",
	Border:         "#333333",
	Glow:           "#00ff41",
	Error:          "#ff073a",
	Warning:        "#ffaa00",
	Success:        "#00ff41",
}

var daylight = Palette{
	Primary:        "#008f25",
	Secondary:      "#c2006a",
	Accent:         "#0077b3",
	Background:     "#f4f4f4",
	BackgroundDark: "#e6e6e6",
	Text:           "#101010",
	TextMuted:      "#555555",
	Border:         "#cccccc",
	Glow:           "#00c237",
	Error:          "#d0002a",
	Warning:        "#b36b00",
	Success:        "#008f25",
}

// Colors returns the palette for m.
func (m Mode) Colors() Palette {
	if m == Light {
		return daylight
	}
	return neon
}
