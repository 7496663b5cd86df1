package models

import "strings"

type UserProfile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	City      string `json:"city"`
	Bio       string `json:"bio"`
	UserID    string `json:"userId,omitempty"`
}

// DisplayName is "First Last", falling back to the user id.
func (p UserProfile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.UserID
	}
	return name
}

// Missing lists the empty profile fields, in form order.
func (p UserProfile) Missing() []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"firstName", p.FirstName},
		{"lastName", p.LastName},
		{"city", p.City},
		{"bio", p.Bio},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	User        AuthUser `json:"user"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// ErrorBody is the backend's JSON error shape.
type ErrorBody struct {
	Msg string `json:"msg"`
}
