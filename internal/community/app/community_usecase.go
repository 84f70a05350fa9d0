package app

import (
	"errors"

	"community_chat_service/internal/community/domain"
	"community_chat_service/internal/community/repository"
	errprocess "community_chat_service/pkg/err"

	"github.com/google/uuid"
)

const (
	defaultNearbyLimit = 50
	defaultTopLimit    = 10
	maxTopLimit        = 100
)

// ErrInvalidRadius radius must be a positive number of meters
var ErrInvalidRadius = errors.New("radius must be greater than zero")

// CommunityUseCase application services exposed by the community service
type CommunityUseCase interface {
	CreateCommunity(name, description string, lat, lng float64) (*domain.Community, error)
	NearbyCommunities(lat, lng, radiusMeters float64) ([]domain.NearbyCommunity, error)
	SubmitScore(gameID, memberID string, score int64) error
	Leaderboard(gameID string, limit int) ([]domain.GameScore, error)
}

type communityUseCase struct {
	communityRepo   repository.CommunityRepo
	leaderboardRepo repository.LeaderboardRepo
}

// NewCommunityUseCase create a new CommunityUseCase
func NewCommunityUseCase(communityRepo repository.CommunityRepo,
	leaderboardRepo repository.LeaderboardRepo,
) CommunityUseCase {
	return &communityUseCase{
		communityRepo:   communityRepo,
		leaderboardRepo: leaderboardRepo,
	}
}

// CreateCommunity registers a community at a fixed location
func (c *communityUseCase) CreateCommunity(name, description string, lat, lng float64) (*domain.Community, error) {
	if name == "" {
		return nil, errprocess.Set("community name is required")
	}

	community := domain.Community{
		CommunityID: uuid.New().String(),
		Name:        name,
		Description: description,
		Lat:         lat,
		Lng:         lng,
	}
	if err := c.communityRepo.Create(&community); err != nil {
		return nil, err
	}
	return &community, nil
}

// NearbyCommunities lists communities within radiusMeters of (lat, lng),
// nearest first
func (c *communityUseCase) NearbyCommunities(lat, lng, radiusMeters float64) ([]domain.NearbyCommunity, error) {
	if radiusMeters <= 0 {
		return nil, ErrInvalidRadius
	}
	return c.communityRepo.FindNearby(lat, lng, radiusMeters, defaultNearbyLimit)
}

// SubmitScore records a game result, keeping only the member's best
func (c *communityUseCase) SubmitScore(gameID, memberID string, score int64) error {
	if gameID == "" {
		return errprocess.Set("game id is required")
	}
	if score < 0 {
		return errprocess.Set("score must not be negative")
	}
	return c.leaderboardRepo.SubmitScore(gameID, memberID, score)
}

// Leaderboard returns the top entries for one game, best score first
func (c *communityUseCase) Leaderboard(gameID string, limit int) ([]domain.GameScore, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	return c.leaderboardRepo.TopScores(gameID, limit)
}
