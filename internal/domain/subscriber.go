package domain

import "time"

// Subscriber is a member signed up for the daily digest email.
// PortalPassword holds the secretbox-sealed portal password; the plaintext is
// only recovered when the digest job logs in on the member's behalf.
type Subscriber struct {
	ID             string      `json:"id"`
	Email          string      `json:"email"`
	MemberNumber   string      `json:"member_number"`
	PortalPassword []byte      `json:"portal_password"`
	Preferences    Preferences `json:"preferences"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
