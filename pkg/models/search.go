package models

// WebResult is one organic hit from the web search provider.
type WebResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Date     string `json:"date,omitempty"`
	Position int    `json:"position,omitempty"`
}

// WebSearch is the parsed response of a single search query.
type WebSearch struct {
	Query     string      `json:"query"`
	Results   []WebResult `json:"results"`
	AnswerBox string      `json:"answer_box,omitempty"`
	Related   []string    `json:"related,omitempty"`
}
