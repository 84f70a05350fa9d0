package domain

import (
	"time"

	"community_chat_service/pkg/encrypt"
)

// MemberStatus member state
type MemberStatus int

// states: 0=offline, 1=online, 2=ban, 3=delete
const (
	// MemberStatusOffLine member is offline
	MemberStatusOffLine MemberStatus = iota
	// MemberStatusOnLine member is online
	MemberStatusOnLine
	// MemberStatusBan member is banned
	MemberStatusBan
	// MemberStatusDelete member is deleted
	MemberStatusDelete
)

// Member one registered user, including the display profile the chat
// service reads for message enrichment.
type Member struct {
	ID              int64
	MemberID        string
	Username        string
	Email           string
	Password        string
	Banner          string
	ProfileImageURL string
	Status          MemberStatus
}

// MemberSession the redis-backed session for a logged-in member
type MemberSession struct {
	AccessToken  string    `json:"AccessToken"`
	RefreshToken string    `json:"RefreshToken"`
	MemberID     string    `json:"MemberID"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// TokenPair issued on login
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// IsPasswordMatch verify the password against the stored hash
func (m *Member) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(m.Password, inputPwd)
}

// IsExpired check whether the session has expired
func (s *MemberSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// MemberQuery join conditions used to query members
type MemberQuery struct {
	ID       *int64  `db:"id"`
	MemberID *string `db:"member_id"`
	Email    *string `db:"email"`
}
