// Package store provides durable, per-user storage of the book collection
// and single-record storage of the authenticated user.
package store

import "strings"

// Plan is a subscription tier.
type Plan string

// The fixed plan enumeration.
const (
	PlanFree      Plan = "free"
	PlanWriter    Plan = "writer"
	PlanArchitect Plan = "architect"
	PlanMaster    Plan = "master"
)

// IsValidPlan reports whether p is one of the known tiers.
func IsValidPlan(p Plan) bool {
	switch p {
	case PlanFree, PlanWriter, PlanArchitect, PlanMaster:
		return true
	}
	return false
}

// User is the authenticated principal. Its id is derived deterministically
// from the login email, lower-cased; all book storage is namespaced by it.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Plan  Plan   `json:"subscriptionPlan"`
}

// UserID derives the stable principal id from an email address.
func UserID(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
