package entity

// OCROptions are passed through to the recognition engine unchanged.
type OCROptions struct {
	Languages   []string          // e.g. ["jpn", "eng"]
	PageSegMode int               // tesseract --psm
	Variables   map[string]string // engine specific settings
}

type OCRPage struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type OCRDocument struct {
	Filename string    `json:"filename"`
	Pages    []OCRPage `json:"pages"`
	Text     string    `json:"text"`
	Warning  string    `json:"warning,omitempty"`
}
