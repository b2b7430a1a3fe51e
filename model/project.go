package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	ProjectTypeElementor     = "Elementor"
	ProjectTypeGraphicDesign = "Graphic Design"
	ProjectTypeVideo         = "Video"
)

type Project struct {
	ProjectID       string          `json:"project_id"`
	OwnerID         string          `json:"owner_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	ProjectType     string          `json:"project_type"`
	Price           decimal.Decimal `json:"price"`
	Subscription    bool            `json:"subscription"`
	BillingInterval string          `json:"billing_interval,omitempty"`
	Deadline        *time.Time      `json:"deadline,omitempty"`
	FileLink        string          `json:"file_link,omitempty"`
	Status          string          `json:"status"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	GumroadLink     string          `json:"gumroad_link,omitempty"`
	FundedAmount    decimal.Decimal `json:"funded_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// FullyFunded reports whether accumulated conversion payouts have reached
// the project price. Overshoot counts; the threshold is >=, not ==.
func (p *Project) FullyFunded() bool {
	if p.Price.IsZero() {
		return false
	}
	return p.FundedAmount.GreaterThanOrEqual(p.Price)
}

// Published reports whether a validated product URL has been stored.
func (p *Project) Published() bool {
	return p.GumroadLink != ""
}

func (p *Project) ValidateType() error {
	switch p.ProjectType {
	case ProjectTypeElementor, ProjectTypeGraphicDesign, ProjectTypeVideo:
		return nil
	}
	return fmt.Errorf("unknown project type %q", p.ProjectType)
}
