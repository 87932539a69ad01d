package models

import "time"

// Session holds the persisted API session of the current user.
type Session struct {
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // unix секунды
}

// Expired reports whether the access token lifetime has passed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(time.Unix(s.ExpiresAt, 0))
}
