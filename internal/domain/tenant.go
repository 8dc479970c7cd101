package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionPlan represents the billing tier of a tenant
type SubscriptionPlan string

const (
	PlanFree SubscriptionPlan = "free"
	PlanPro  SubscriptionPlan = "pro"
)

// Tenant represents an isolated organization; every user, invitation and
// note belongs to exactly one tenant.
type Tenant struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Slug      string           `json:"slug" db:"slug"`
	Plan      SubscriptionPlan `json:"subscription_plan" db:"subscription_plan"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// IsFree reports whether the tenant is on the quota-limited free tier.
func (t *Tenant) IsFree() bool {
	return t.Plan == PlanFree
}
