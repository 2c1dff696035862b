package models

// UserProfile is the signed-in user as reported by /api/auth/me
type UserProfile struct {
	Name    string `json:"name" example:"Jane Admin"`
	Email   string `json:"email" example:"jane@university.edu"`
	Picture string `json:"picture,omitempty" example:"https://lh3.googleusercontent.com/a/photo"`
}

// Initial returns the first letter used for the avatar fallback
func (u *UserProfile) Initial() string {
	if u == nil {
		return "?"
	}
	for _, r := range u.Name {
		return string(r)
	}
	for _, r := range u.Email {
		return string(r)
	}
	return "?"
}
