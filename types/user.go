package types

import "time"

// User represents an account in the system.
// It contains identity and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Email is the user's email address, unique across accounts.
	Email string `json:"email" db:"email"`

	// Name is the user's display name. It may be empty.
	Name string `json:"name" db:"name"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UserSummary is the author payload embedded in posts and comments.
type UserSummary struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Profile holds the optional public profile attached to a user.
type Profile struct {
	UserID      int       `json:"userId" db:"user_id"`
	DisplayName string    `json:"displayName" db:"display_name"`
	Bio         string    `json:"bio" db:"bio"`
	AvatarURL   string    `json:"avatarUrl" db:"avatar_url"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// UserStats aggregates the public counters shown on a profile page.
type UserStats struct {
	PostsCount     int `json:"postsCount"`
	FollowersCount int `json:"followersCount"`
	FollowingCount int `json:"followingCount"`
}
