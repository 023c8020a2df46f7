package account

import "time"

// Profile holds the education metadata collected during sign-up and
// onboarding.
type Profile struct {
	FullName          string   `json:"full_name"`
	Grade             string   `json:"grade,omitempty"`
	School            string   `json:"school,omitempty"`
	Country           string   `json:"country,omitempty"`
	State             string   `json:"state,omitempty"`
	PreferredSubjects []string `json:"preferred_subjects,omitempty"`
	LearningStyle     string   `json:"learning_style,omitempty"`
}

// Account represents a registered student.
type Account struct {
	ID             string
	Email          string
	PasswordHash   []byte
	Profile        Profile
	Approved       bool
	EmailConfirmed bool
	TokenVersion   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastLogin      time.Time
}
