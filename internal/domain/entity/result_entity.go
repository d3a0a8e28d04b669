package entity

import "time"

// DomainScore is one scored domain inside a screening.
type DomainScore struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Condition string  `json:"condition"`
}

// Screening is a single scored questionnaire with its per-domain breakdown.
type Screening struct {
	Name      string        `json:"name"`
	Domain    []DomainScore `json:"domain"`
	Score     float64       `json:"score"`
	Condition string        `json:"condition"`
}

// Result is a stored screening outcome owned by exactly one user.
type Result struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Result    []Screening `json:"result"`
	CreatedAt time.Time   `json:"created_at"`
}

// ResultOwner is the public projection of the owning user.
type ResultOwner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ResultSummary lists a result without its payload.
type ResultSummary struct {
	ID        string      `json:"id"`
	User      ResultOwner `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Report is the payload-only projection of a result.
type Report struct {
	ID     string      `json:"id"`
	Result []Screening `json:"result"`
}
