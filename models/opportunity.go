package models

import "time"

// Grant statuses as reported by the upstream opportunity source.
const (
	GrantNotStarted = "not_started"
	GrantInProgress = "in_progress"
	GrantClaimed    = "claimed"
)

// Grant is a single government or utility grant available to the homeowner.
type Grant struct {
	ID       string    `json:"id" bson:"id"`
	Name     string    `json:"name" bson:"name"`
	Amount   float64   `json:"amount" bson:"amount"`
	Deadline time.Time `json:"deadline" bson:"deadline"`
	Status   string    `json:"status" bson:"status"`
}

// InsuranceStatus summarizes the insurance optimizer's current state.
type InsuranceStatus struct {
	Savings float64 `json:"savings" bson:"savings"`
	Status  string  `json:"status" bson:"status"`
}

// MortgageStatus summarizes the mortgage optimizer's current state.
type MortgageStatus struct {
	Savings float64 `json:"savings" bson:"savings"`
	Status  string  `json:"status" bson:"status"`
}

// OpportunityData is a read-only snapshot of the user's available financial
// benefits, supplied by the upstream source and evaluated by the scheduler.
type OpportunityData struct {
	TotalValue float64         `json:"totalValue" bson:"totalValue"`
	Claimed    float64         `json:"claimed" bson:"claimed"`
	InProgress float64         `json:"inProgress" bson:"inProgress"`
	NotStarted float64         `json:"notStarted" bson:"notStarted"`
	Grants     []Grant         `json:"grants" bson:"grants"`
	Insurance  InsuranceStatus `json:"insurance" bson:"insurance"`
	Mortgage   MortgageStatus  `json:"mortgage" bson:"mortgage"`
}

// OpportunitySnapshot wraps an OpportunityData with its ingestion time for
// durable storage.
type OpportunitySnapshot struct {
	Data      OpportunityData `json:"data" bson:"data"`
	FetchedAt time.Time       `json:"fetchedAt" bson:"fetchedAt"`
}
