package model

import "time"

// PublishResult is the outcome of one publish orchestration. It is returned
// to the caller and folded into the project record; it is never persisted
// as its own entity.
type PublishResult struct {
	Success      bool       `json:"success"`
	GumroadURL   string     `json:"gumroad_url,omitempty"`
	Message      string     `json:"message"`
	Error        string     `json:"error,omitempty"`
	Stage        string     `json:"stage,omitempty"`
	Instructions []string   `json:"instructions,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// VerificationOutcome is the decision returned by the metadata review.
type VerificationOutcome struct {
	Approved    bool           `json:"approved"`
	Reason      string         `json:"reason"`
	ProjectType string         `json:"type,omitempty"`
	Publish     *PublishResult `json:"publish,omitempty"`
}
