package models

// Generation is the draft text produced for a date. Fallback is set when the
// external generator was unavailable and a placeholder post was synthesized.
type Generation struct {
	Date     string `json:"date"`
	Text     string `json:"generatedPost"`
	Note     string `json:"note,omitempty"`
	Fallback bool   `json:"fallback"`
}
