package app

import (
	"context"
	"testing"
	"time"

	"prepconnect_service/internal/member/domain"
	"prepconnect_service/pkg/database"
	"prepconnect_service/pkg/encrypt"
	errprocess "prepconnect_service/pkg/err"
	"prepconnect_service/pkg/logger"
	"prepconnect_service/pkg/token"

	"prepconnect_service/internal/member/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMemoryProfileRepo() repository.ProfileRepository {
	return repository.NewKVProfileRepository(database.NewMemoryKVStore())
}

// MockAccountRepo Mock AccountRepo
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) CreateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepo) FindAccount(ctx context.Context, query *domain.AccountQuery) (*domain.Account, error) {
	args := m.Called(ctx, query)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSessionRepo 針對 UserSession 的 Mock
type MockSessionRepo struct {
	mock.Mock
}

// Set 模擬 Redis Set 操作
func (m *MockSessionRepo) Set(ctx context.Context, key string, value domain.UserSession, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Get 模擬 Redis Get 操作
func (m *MockSessionRepo) Get(ctx context.Context, key string) (domain.UserSession, error) {
	args := m.Called(ctx, key)
	if args.Get(0) != nil {
		return args.Get(0).(domain.UserSession), args.Error(1)
	}
	return domain.UserSession{}, args.Error(1)
}

// Del 模擬 Redis Del 操作
func (m *MockSessionRepo) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// ExtendTTL 模擬 Redis ExtendTTL 操作
func (m *MockSessionRepo) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}

// GetTTL 模擬 Redis GetTTL 操作
func (m *MockSessionRepo) GetTTL(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func TestMemberUseCase_Signup(t *testing.T) {
	ctx := context.Background()
	email := "student@example.com"
	password := "Securepassword111"

	logger.SetNewNop()

	// **情境 1: 註冊成功**
	t.Run("成功註冊", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockSession := new(MockSessionRepo)
		profiles := newMemoryProfileRepo()

		mockRepo.On("FindAccount", ctx, &domain.AccountQuery{Email: &email}).Return(nil, database.ErrKeyNotFound).Once()
		mockRepo.On("CreateAccount", ctx, mock.Anything).Return(nil).Once()

		uc := NewMemberUseCase(mockRepo, profiles, time.Hour, mockSession, "member_service")
		profile, err := uc.Signup(ctx, SignupInput{
			Email:    email,
			Password: password,
			Name:     "Alice",
			UserType: token.UserTypeStudent,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, profile.UserID)
		assert.Equal(t, token.UserTypeStudent, profile.UserType)

		// profile 可以查回來
		got, err := profiles.FindByUserID(ctx, profile.UserID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
		mockRepo.AssertExpectations(t)
	})

	// **情境 2: Email 已存在**
	t.Run("Email 已存在", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockSession := new(MockSessionRepo)

		existing := &domain.Account{ID: 1, UserID: "u1", Email: email, Password: password}
		mockRepo.On("FindAccount", ctx, &domain.AccountQuery{Email: &email}).Return(existing, nil).Once()

		uc := NewMemberUseCase(mockRepo, newMemoryProfileRepo(), time.Hour, mockSession, "member_service")
		_, err := uc.Signup(ctx, SignupInput{
			Email:    email,
			Password: password,
			Name:     "Alice",
			UserType: token.UserTypeStudent,
		})

		assert.Equal(t, errprocess.CodeInvalidArgument, errprocess.CodeOf(err))
		mockRepo.AssertNotCalled(t, "CreateAccount", ctx, mock.Anything)
	})

	// **情境 3: 弱密碼**
	t.Run("弱密碼", func(t *testing.T) {
		uc := NewMemberUseCase(new(MockAccountRepo), newMemoryProfileRepo(), time.Hour, new(MockSessionRepo), "member_service")
		_, err := uc.Signup(ctx, SignupInput{
			Email:    email,
			Password: "short",
			Name:     "Alice",
			UserType: token.UserTypeStudent,
		})
		assert.Equal(t, errprocess.CodeInvalidArgument, errprocess.CodeOf(err))
	})
}

func TestMemberUseCase_Login(t *testing.T) {
	ctx := context.Background()
	email := "mentor@example.com"
	password := "Securepassword111"
	hashed, err := encrypt.HashPassword(password)
	require.NoError(t, err)

	logger.SetNewNop()

	account := &domain.Account{ID: 1, UserID: "u1", Email: email, Password: hashed, UserType: token.UserTypeMentor}

	// **情境 1: 登入成功, session 寫入 redis**
	t.Run("成功登入", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockSession := new(MockSessionRepo)

		mockRepo.On("FindAccount", ctx, &domain.AccountQuery{Email: &email}).Return(account, nil).Once()
		mockSession.On("Set", ctx, "u1", mock.Anything, time.Hour).Return(nil).Once()

		uc := NewMemberUseCase(mockRepo, newMemoryProfileRepo(), time.Hour, mockSession, "member_service")
		tokenStr, err := uc.Login(ctx, email, password)

		require.NoError(t, err)
		claims, err := token.ParseJWT(tokenStr)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, string(token.UserTypeMentor), claims.UserType)
		mockSession.AssertExpectations(t)
	})

	// **情境 2: 密碼錯誤**
	t.Run("密碼錯誤", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockSession := new(MockSessionRepo)
		mockRepo.On("FindAccount", ctx, &domain.AccountQuery{Email: &email}).Return(account, nil).Once()

		uc := NewMemberUseCase(mockRepo, newMemoryProfileRepo(), time.Hour, mockSession, "member_service")
		_, err := uc.Login(ctx, email, "Wrongpassword111")

		assert.Equal(t, errprocess.CodeUnauthenticated, errprocess.CodeOf(err))
		mockSession.AssertNotCalled(t, "Set", ctx, mock.Anything, mock.Anything, mock.Anything)
	})

	// **情境 3: 帳號不存在**
	t.Run("帳號不存在", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		mockRepo.On("FindAccount", ctx, &domain.AccountQuery{Email: &email}).Return(nil, database.ErrKeyNotFound).Once()

		uc := NewMemberUseCase(mockRepo, newMemoryProfileRepo(), time.Hour, new(MockSessionRepo), "member_service")
		_, err := uc.Login(ctx, email, password)

		assert.Equal(t, errprocess.CodeUnauthenticated, errprocess.CodeOf(err))
	})
}

func TestMemberUseCase_Profiles(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	profiles := newMemoryProfileRepo()
	uc := NewMemberUseCase(new(MockAccountRepo), profiles, time.Hour, new(MockSessionRepo), "member_service")

	now := time.Now().UTC()
	require.NoError(t, profiles.Save(ctx, &domain.Profile{UserID: "m1", Name: "Zoe", UserType: token.UserTypeMentor, CreatedAt: now}))
	require.NoError(t, profiles.Save(ctx, &domain.Profile{UserID: "m2", Name: "Bob", UserType: token.UserTypeMentor, CreatedAt: now}))
	require.NoError(t, profiles.Save(ctx, &domain.Profile{UserID: "s1", Name: "Amy", UserType: token.UserTypeStudent, CreatedAt: now}))

	// mentors 目錄只含 mentor, name 升冪
	mentors, err := uc.ListMentors(ctx)
	require.NoError(t, err)
	require.Len(t, mentors, 2)
	assert.Equal(t, "Bob", mentors[0].Name)
	assert.Equal(t, "Zoe", mentors[1].Name)

	// 本人才能更新
	name := "Bobby"
	_, err = uc.UpdateProfile(ctx, "m1", "m2", &name, nil, nil)
	assert.Equal(t, errprocess.CodePermissionDenied, errprocess.CodeOf(err))

	updated, err := uc.UpdateProfile(ctx, "m2", "m2", &name, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bobby", updated.Name)

	// 不存在的 profile
	_, err = uc.GetProfile(ctx, "nope")
	assert.Equal(t, errprocess.CodeNotFound, errprocess.CodeOf(err))
}
