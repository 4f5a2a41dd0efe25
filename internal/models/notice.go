package models

import "time"

// Notice is an announcement on the school notice board. Immutable once
// created; the board is append-only, newest first.
type Notice struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Date           time.Time  `json:"date"`
	TargetAudience []UserRole `json:"targetAudience"`
	IssuedBy       string     `json:"issuedBy"`
}

// VisibleTo reports whether the notice targets the given role.
// Admin always sees every notice.
func (n Notice) VisibleTo(role UserRole) bool {
	if role == RoleAdmin {
		return true
	}
	for _, r := range n.TargetAudience {
		if r == role {
			return true
		}
	}
	return false
}
