package repository

import (
	"community_chat_service/internal/community/domain"

	"gorm.io/gorm"
)

// CommunityRepo definition community discovery queries
type CommunityRepo interface {
	AutoMigrate() error
	Create(community *domain.Community) error
	GetByCommunityID(communityID string) (*domain.Community, error)
	FindNearby(lat, lng, radiusMeters float64, limit int) ([]domain.NearbyCommunity, error)
}

type communityRepo struct {
	db *gorm.DB
}

// NewCommunityRepo create CommunityRepo
func NewCommunityRepo(db *gorm.DB) CommunityRepo {
	return &communityRepo{db: db}
}

func (r *communityRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Community{})
}

func (r *communityRepo) Create(community *domain.Community) error {
	return r.db.Create(community).Error
}

func (r *communityRepo) GetByCommunityID(communityID string) (*domain.Community, error) {
	var c domain.Community
	if err := r.db.Where("community_id = ?", communityID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindNearby uses PostGIS geography so the radius and the returned
// distance are both in meters. Results come back nearest first.
func (r *communityRepo) FindNearby(lat, lng, radiusMeters float64, limit int) ([]domain.NearbyCommunity, error) {
	var results []domain.NearbyCommunity
	err := r.db.Raw(`
		SELECT id, community_id, name, description, lat, lng,
		       ST_Distance(
		           ST_SetSRID(ST_MakePoint(lng, lat), 4326)::geography,
		           ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography
		       ) AS distance_meters
		FROM communities
		WHERE ST_DWithin(
		           ST_SetSRID(ST_MakePoint(lng, lat), 4326)::geography,
		           ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography,
		           ?
		      )
		ORDER BY distance_meters ASC
		LIMIT ?`,
		lng, lat, lng, lat, radiusMeters, limit,
	).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
