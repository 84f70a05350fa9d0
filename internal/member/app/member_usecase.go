package app

import (
	"context"
	"errors"
	"time"

	"community_chat_service/internal/member/domain"
	"community_chat_service/internal/member/repository"
	"community_chat_service/pkg/config"
	"community_chat_service/pkg/database"
	"community_chat_service/pkg/encrypt"
	"community_chat_service/pkg/logger"
	token "community_chat_service/pkg/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemberUseCase application services exposed by the member service
type MemberUseCase interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, accessToken string) error
	FindMember(ctx context.Context, param *domain.MemberQuery) (*domain.Member, error)
}

type memberUseCase struct {
	memberRepo repository.MemberRepository
	sessionTTL time.Duration
	redisRepo  database.RedisRepository[domain.MemberSession]
}

// NewMemberUseCase create a new MemberUseCase
func NewMemberUseCase(memberRepo repository.MemberRepository,
	sessionTTL time.Duration,
	redisRepo database.RedisRepository[domain.MemberSession],
) MemberUseCase {
	return &memberUseCase{
		memberRepo: memberRepo,
		sessionTTL: sessionTTL,
		redisRepo:  redisRepo,
	}
}

// Register creates a new member with a default display profile
func (m *memberUseCase) Register(ctx context.Context, username, email, password string) error {
	if _, err := m.memberRepo.FindByMember(ctx, &domain.MemberQuery{Email: &email}); err == nil {
		return errors.New("email already exists")
	}

	pw, err := encrypt.HashPassword(password)
	if err != nil {
		return err
	}

	member := domain.Member{
		MemberID: uuid.New().String(),
		Username: username,
		Email:    email,
		Password: pw,
	}

	logger.Log.Info("usecase Register", zap.String("member_id", member.MemberID), zap.String("username", username))

	return m.memberRepo.CreateMember(ctx, &member)
}

// FindMember queries members by id, member_id or email
func (m *memberUseCase) FindMember(ctx context.Context, param *domain.MemberQuery) (*domain.Member, error) {
	return m.memberRepo.FindByMember(ctx, param)
}

// Login verifies the credentials and issues an access/refresh token pair
func (m *memberUseCase) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	member, err := m.memberRepo.FindByMember(ctx, &domain.MemberQuery{Email: &email})
	if err != nil {
		logger.Log.Error("login: email not found")
		return nil, errors.New("user not found")
	}

	if err = member.IsPasswordMatch(password); err != nil {
		logger.Log.Error("login: password mismatch")
		return nil, err
	}

	member.Status = domain.MemberStatusOnLine

	accessToken, err := token.GenerateAccessTokenWrapper(member.MemberID, config.EnvConfig.MemberService)
	if err != nil {
		return nil, err
	}
	refreshToken, err := token.GenerateRefreshTokenWrapper(member.MemberID, config.EnvConfig.MemberService)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := domain.MemberSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		MemberID:     member.MemberID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(m.sessionTTL),
	}

	if err := m.redisRepo.Set(ctx, member.MemberID, session, m.sessionTTL); err != nil {
		return nil, err
	}

	if err := m.memberRepo.UpdateMemberStatus(ctx, member); err != nil {
		return nil, err
	}

	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh rotates the access token against a valid refresh token
func (m *memberUseCase) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := token.ParseRefreshTokenWrapper(refreshToken)
	if err != nil {
		logger.Log.Error("refresh err :", zap.Error(err))
		return "", err
	}

	session, err := m.redisRepo.Get(ctx, claims.UserID)
	if err != nil {
		return "", errors.New("session not found")
	}
	if session.RefreshToken != refreshToken {
		return "", errors.New("refresh token revoked")
	}

	accessToken, err := token.GenerateAccessTokenWrapper(claims.UserID, config.EnvConfig.MemberService)
	if err != nil {
		return "", err
	}

	session.AccessToken = accessToken
	session.LastActivity = time.Now()
	if err := m.redisRepo.Set(ctx, claims.UserID, session, m.sessionTTL); err != nil {
		return "", err
	}

	return accessToken, nil
}

// Logout drops the session and marks the member offline
func (m *memberUseCase) Logout(ctx context.Context, accessToken string) error {
	claims, err := token.ParseAccessTokenWrapper(accessToken)
	if err != nil {
		logger.Log.Error("logout err :", zap.Error(err))
		return err
	}

	if err := m.redisRepo.Del(ctx, claims.UserID); err != nil {
		return err
	}

	return m.memberRepo.UpdateMemberStatus(ctx, &domain.Member{
		MemberID: claims.UserID,
		Status:   domain.MemberStatusOffLine,
	})
}
