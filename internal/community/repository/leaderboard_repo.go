package repository

import (
	"time"

	"community_chat_service/internal/community/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeaderboardRepo definition per-game score storage
type LeaderboardRepo interface {
	AutoMigrate() error
	SubmitScore(gameID, memberID string, score int64) error
	TopScores(gameID string, limit int) ([]domain.GameScore, error)
	MemberScore(gameID, memberID string) (*domain.GameScore, error)
}

type leaderboardRepo struct {
	db *gorm.DB
}

// NewLeaderboardRepo create LeaderboardRepo
func NewLeaderboardRepo(db *gorm.DB) LeaderboardRepo {
	return &leaderboardRepo{db: db}
}

func (r *leaderboardRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.GameScore{})
}

// SubmitScore upserts on (game_id, member_id) and keeps the higher score,
// so replays can never lower a member's leaderboard entry.
func (r *leaderboardRepo) SubmitScore(gameID, memberID string, score int64) error {
	entry := domain.GameScore{
		GameID:    gameID,
		MemberID:  memberID,
		Score:     score,
		UpdatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "game_id"}, {Name: "member_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":      gorm.Expr("GREATEST(game_scores.score, EXCLUDED.score)"),
			"updated_at": gorm.Expr("CASE WHEN EXCLUDED.score > game_scores.score THEN EXCLUDED.updated_at ELSE game_scores.updated_at END"),
		}),
	}).Create(&entry).Error
}

func (r *leaderboardRepo) TopScores(gameID string, limit int) ([]domain.GameScore, error) {
	var scores []domain.GameScore
	if err := r.db.Where("game_id = ?", gameID).Order("score DESC").Limit(limit).Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *leaderboardRepo) MemberScore(gameID, memberID string) (*domain.GameScore, error) {
	var s domain.GameScore
	if err := r.db.Where("game_id = ? AND member_id = ?", gameID, memberID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
