package seocrawl

// Candidate is a URL considered for crawling. Candidates are ranked at
// discovery time and never persisted.
type Candidate struct {
	URL    string `json:"url"`
	IsNav  bool   `json:"isNav"`
	Weight int    `json:"weight"`
}

// PageError records a failure affecting a single page.
type PageError struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}
