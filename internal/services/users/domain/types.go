// Package domain defines the core types and interfaces for the users service
package domain

import "time"

// Profile is one account row
// AuthSubject is the external identity the auth provider minted for the user
type Profile struct {
	ID          string
	AuthSubject string
	Email       string
	Nickname    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// ProfileView is the response shape, timestamps rendered as RFC 3339 text
type ProfileView struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// View maps the row to its response shape
func (p Profile) View() ProfileView {
	return ProfileView{
		ID:        p.ID,
		UserID:    p.AuthSubject,
		Email:     p.Email,
		Nickname:  p.Nickname,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateInput is the signup payload
type CreateInput struct {
	UserID   string
	Email    string
	Nickname string
}

// UpdateInput is a partial profile update, nil means leave unchanged
type UpdateInput struct {
	Email    *string
	Nickname *string
}

// DeleteConfirmation must equal this sentinel before a destructive delete runs
const DeleteConfirmation = "DELETE"
