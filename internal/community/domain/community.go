package domain

import "time"

// Community a geolocated community a member can discover and chat in
type Community struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	CommunityID string `gorm:"uniqueIndex" json:"community_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// NearbyCommunity a community together with its distance from the query point
type NearbyCommunity struct {
	Community
	DistanceMeters float64 `json:"distance_meters"`
}

// GameScore best score a member ever posted for one game
type GameScore struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	GameID    string    `gorm:"uniqueIndex:idx_game_member" json:"game_id"`
	MemberID  string    `gorm:"uniqueIndex:idx_game_member" json:"member_id"`
	Score     int64     `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}
