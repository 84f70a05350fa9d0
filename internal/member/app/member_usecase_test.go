package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"community_chat_service/internal/member/domain"
	"community_chat_service/pkg/encrypt"
	"community_chat_service/pkg/logger"
	token "community_chat_service/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMemberRepo Mock MemberRepository
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) CreateMember(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepo) UpdateMemberStatus(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepo) FindByMember(ctx context.Context, memberQuery *domain.MemberQuery) (*domain.Member, error) {
	args := m.Called(ctx, memberQuery)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Member), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRedisRepo Mock RedisRepository for MemberSession
type MockRedisRepo struct {
	mock.Mock
}

func (m *MockRedisRepo) Set(ctx context.Context, key string, value domain.MemberSession, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockRedisRepo) Get(ctx context.Context, key string) (domain.MemberSession, error) {
	args := m.Called(ctx, key)
	if args.Get(0) != nil {
		return args.Get(0).(domain.MemberSession), args.Error(1)
	}
	return domain.MemberSession{}, args.Error(1)
}

func (m *MockRedisRepo) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRedisRepo) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}

func (m *MockRedisRepo) GetTTL(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func TestMemberUseCase_Register(t *testing.T) {
	ctx := context.Background()
	email := "test@example.com"
	password := "Securepassword111"

	logger.SetNewNop()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockMemberRepo)
		mockRepo.On("FindByMember", ctx, &domain.MemberQuery{Email: &email}).
			Return(nil, errors.New("not found")).Once()
		mockRepo.On("CreateMember", ctx, mock.MatchedBy(func(m *domain.Member) bool {
			return m.Email == email && m.Username == "alice" && m.MemberID != "" && m.Password != password
		})).Return(nil).Once()

		uc := NewMemberUseCase(mockRepo, time.Hour, new(MockRedisRepo))
		err := uc.Register(ctx, "alice", email, password)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("email already exists", func(t *testing.T) {
		mockRepo := new(MockMemberRepo)
		mockRepo.On("FindByMember", ctx, &domain.MemberQuery{Email: &email}).
			Return(&domain.Member{Email: email}, nil).Once()

		uc := NewMemberUseCase(mockRepo, time.Hour, new(MockRedisRepo))
		err := uc.Register(ctx, "alice", email, password)

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "CreateMember", mock.Anything, mock.Anything)
	})
}

func TestMemberUseCase_Login(t *testing.T) {
	ctx := context.Background()
	email := "test@example.com"
	password := "Securepassword111"
	hashedPassword, _ := encrypt.HashPassword(password)

	logger.SetNewNop()

	t.Run("success", func(t *testing.T) {
		existing := &domain.Member{
			MemberID: "member-1",
			Username: "alice",
			Email:    email,
			Password: hashedPassword,
			Status:   domain.MemberStatusOffLine,
		}

		mockRepo := new(MockMemberRepo)
		mockRedis := new(MockRedisRepo)
		mockRepo.On("FindByMember", ctx, &domain.MemberQuery{Email: &email}).
			Return(existing, nil).Once()
		mockRepo.On("UpdateMemberStatus", ctx, existing).Return(nil).Once()
		mockRedis.On("Set", ctx, existing.MemberID, mock.Anything, mock.Anything).
			Return(nil).Once()

		uc := NewMemberUseCase(mockRepo, time.Hour, mockRedis)
		pair, err := uc.Login(ctx, email, password)

		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		mockRepo.AssertExpectations(t)
		mockRedis.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockRepo := new(MockMemberRepo)
		mockRepo.On("FindByMember", ctx, &domain.MemberQuery{Email: &email}).
			Return(nil, errors.New("no member found with given criteria")).Once()

		uc := NewMemberUseCase(mockRepo, time.Hour, new(MockRedisRepo))
		pair, err := uc.Login(ctx, email, password)

		assert.Error(t, err)
		assert.Nil(t, pair)
	})

	t.Run("wrong password", func(t *testing.T) {
		existing := &domain.Member{
			MemberID: "member-1",
			Email:    email,
			Password: hashedPassword,
		}

		mockRepo := new(MockMemberRepo)
		mockRepo.On("FindByMember", ctx, &domain.MemberQuery{Email: &email}).
			Return(existing, nil).Once()

		uc := NewMemberUseCase(mockRepo, time.Hour, new(MockRedisRepo))
		pair, err := uc.Login(ctx, email, "wrong_password")

		assert.Error(t, err)
		assert.Nil(t, pair)
	})

	t.Run("session store failure", func(t *testing.T) {
		existing := &domain.Member{
			MemberID: "member-1",
			Email:    email,
			Password: hashedPassword,
		}

		mockRepo := new(MockMemberRepo)
		mockRedis := new(MockRedisRepo)
		mockRepo.On("FindByMember", ctx, &domain.MemberQuery{Email: &email}).
			Return(existing, nil).Once()
		mockRedis.On("Set", ctx, existing.MemberID, mock.Anything, mock.Anything).
			Return(errors.New("redis down")).Once()

		uc := NewMemberUseCase(mockRepo, time.Hour, mockRedis)
		pair, err := uc.Login(ctx, email, password)

		assert.Error(t, err)
		assert.Nil(t, pair)
		mockRepo.AssertNotCalled(t, "UpdateMemberStatus", mock.Anything, mock.Anything)
	})
}

func TestMemberUseCase_Refresh(t *testing.T) {
	ctx := context.Background()
	memberID := "member-1"

	logger.SetNewNop()

	refreshToken, err := token.GenerateRefreshToken(memberID, "member_service")
	assert.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		mockRedis := new(MockRedisRepo)
		mockRedis.On("Get", ctx, memberID).Return(domain.MemberSession{
			MemberID:     memberID,
			RefreshToken: refreshToken,
		}, nil).Once()
		mockRedis.On("Set", ctx, memberID, mock.Anything, mock.Anything).Return(nil).Once()

		uc := NewMemberUseCase(new(MockMemberRepo), time.Hour, mockRedis)
		accessToken, err := uc.Refresh(ctx, refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)

		claims, err := token.ParseAccessToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, memberID, claims.UserID)
		mockRedis.AssertExpectations(t)
	})

	t.Run("session missing", func(t *testing.T) {
		mockRedis := new(MockRedisRepo)
		mockRedis.On("Get", ctx, memberID).
			Return(domain.MemberSession{}, errors.New("redis.Nil")).Once()

		uc := NewMemberUseCase(new(MockMemberRepo), time.Hour, mockRedis)
		_, err := uc.Refresh(ctx, refreshToken)

		assert.Error(t, err)
	})

	t.Run("revoked refresh token", func(t *testing.T) {
		otherToken, err := token.GenerateRefreshToken(memberID, "another_session")
		assert.NoError(t, err)

		mockRedis := new(MockRedisRepo)
		mockRedis.On("Get", ctx, memberID).Return(domain.MemberSession{
			MemberID:     memberID,
			RefreshToken: otherToken,
		}, nil).Once()

		uc := NewMemberUseCase(new(MockMemberRepo), time.Hour, mockRedis)
		_, err = uc.Refresh(ctx, refreshToken)

		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		uc := NewMemberUseCase(new(MockMemberRepo), time.Hour, new(MockRedisRepo))
		_, err := uc.Refresh(ctx, "not-a-token")

		assert.Error(t, err)
	})
}

func TestMemberUseCase_Logout(t *testing.T) {
	ctx := context.Background()
	memberID := "member-1"

	logger.SetNewNop()

	accessToken, err := token.GenerateAccessToken(memberID, "member_service")
	assert.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockMemberRepo)
		mockRedis := new(MockRedisRepo)
		mockRedis.On("Del", ctx, memberID).Return(nil).Once()
		mockRepo.On("UpdateMemberStatus", ctx, mock.MatchedBy(func(m *domain.Member) bool {
			return m.MemberID == memberID && m.Status == domain.MemberStatusOffLine
		})).Return(nil).Once()

		uc := NewMemberUseCase(mockRepo, time.Hour, mockRedis)
		err := uc.Logout(ctx, accessToken)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockRedis.AssertExpectations(t)
	})

	t.Run("invalid token", func(t *testing.T) {
		uc := NewMemberUseCase(new(MockMemberRepo), time.Hour, new(MockRedisRepo))
		err := uc.Logout(ctx, "not-a-token")

		assert.Error(t, err)
	})
}
