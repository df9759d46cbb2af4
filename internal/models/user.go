package models

import "time"

// Roles stored on the user document.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the profile document keyed by the external auth subject.
type User struct {
	ID        string               `bson:"_id" json:"id"` // auth subject
	Email     string               `bson:"email" json:"email"`
	Name      string               `bson:"name" json:"name"`
	Role      string               `bson:"role,omitempty" json:"role,omitempty"`
	Coins     int64                `bson:"coins" json:"coins"`
	Calendar  *CalendarIntegration `bson:"googleCalendar,omitempty" json:"googleCalendar,omitempty"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// CalendarIntegration is the token record left behind by the calendar OAuth flow.
// Tokens never leave the server.
type CalendarIntegration struct {
	AccessToken  string    `bson:"accessToken" json:"-"`
	RefreshToken string    `bson:"refreshToken,omitempty" json:"-"`
	Email        string    `bson:"email" json:"email"`
	ConnectedAt  time.Time `bson:"connectedAt" json:"connectedAt"`
}

// NewUser builds the default record persisted on first signup.
func NewUser(id, email, name string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        id,
		Email:     email,
		Name:      name,
		Role:      RoleUser,
		Coins:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin reports whether the stored role grants the admin capability.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// CalendarConnected is true iff an access token is present and non-empty.
func (u *User) CalendarConnected() bool {
	return u != nil && u.Calendar != nil && u.Calendar.AccessToken != ""
}
