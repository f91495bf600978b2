package app

import (
	"context"
	"fmt"
	"time"

	"prepconnect_service/internal/member/domain"
	"prepconnect_service/internal/member/repository"
	"prepconnect_service/pkg/database"
	"prepconnect_service/pkg/encrypt"
	errprocess "prepconnect_service/pkg/err"
	"prepconnect_service/pkg/logger"
	"prepconnect_service/pkg/token"

	"github.com/google/uuid"
)

// SignupInput 建立帳號與 profile 需要的資料
type SignupInput struct {
	Email     string
	Password  string
	Name      string
	UserType  token.UserType
	Bio       string
	Expertise []string
}

// MemberUseCase 這裡封裝了對外提供的應用服務
type MemberUseCase interface {
	Signup(ctx context.Context, in SignupInput) (*domain.Profile, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, userID string) error
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, callerID, userID string, name, bio *string, expertise []string) (*domain.Profile, error)
	ListMentors(ctx context.Context) ([]domain.Profile, error)
}

type memberUseCase struct {
	accountRepo repository.AccountRepository
	profileRepo repository.ProfileRepository
	sessionTTL  time.Duration
	sessionRepo database.RedisRepository[domain.UserSession]
	issuer      string
}

// NewMemberUseCase 建立一個新的 MemberUseCase
func NewMemberUseCase(accountRepo repository.AccountRepository,
	profileRepo repository.ProfileRepository,
	sessionTTL time.Duration,
	sessionRepo database.RedisRepository[domain.UserSession],
	issuer string,
) MemberUseCase {
	return &memberUseCase{
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		sessionTTL:  sessionTTL,
		sessionRepo: sessionRepo,
		issuer:      issuer,
	}
}

// Signup 建立帳號與公開 profile
func (m *memberUseCase) Signup(ctx context.Context, in SignupInput) (*domain.Profile, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, errprocess.InvalidArgument("email, password and name are required")
	}
	if err := encrypt.ValidatePasswordStrength(in.Password); err != nil {
		return nil, errprocess.InvalidArgument(err.Error())
	}

	// 檢查 email 是否已存在
	if _, err := m.accountRepo.FindAccount(ctx, &domain.AccountQuery{Email: &in.Email}); err == nil {
		return nil, errprocess.InvalidArgument("email already exists")
	}

	pw, err := encrypt.HashPassword(in.Password)
	if err != nil {
		return nil, errprocess.Internal("failed to hash password", err)
	}

	account := domain.Account{
		UserID:   uuid.New().String(),
		Email:    in.Email,
		Password: pw,
		UserType: in.UserType,
	}

	logger.Log.Info(fmt.Sprintf("usecase Signup : %s %s", account.UserID, account.Email))

	if err := m.accountRepo.CreateAccount(ctx, &account); err != nil {
		return nil, errprocess.Internal("failed to create account", err)
	}

	profile := domain.Profile{
		UserID:    account.UserID,
		Name:      in.Name,
		UserType:  in.UserType,
		Bio:       in.Bio,
		Expertise: in.Expertise,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.profileRepo.Save(ctx, &profile); err != nil {
		return nil, errprocess.Internal("failed to save profile", err)
	}

	return &profile, nil
}

// Login 驗證密碼, 發 JWT 並在 redis 建立 session
func (m *memberUseCase) Login(ctx context.Context, email, password string) (string, error) {
	account, err := m.accountRepo.FindAccount(ctx, &domain.AccountQuery{Email: &email})
	if err != nil {
		logger.Log.Error("email can't find!!!")
		return "", errprocess.Unauthenticated("invalid email or password")
	}

	if err = account.IsPasswordMatch(password); err != nil {
		logger.Log.Error("password can't match!!!")
		return "", errprocess.Unauthenticated("invalid email or password")
	}

	t, err := token.GenerateJWTWrapper(account.UserID, string(account.UserType), m.issuer)
	if err != nil {
		return "", errprocess.Internal("failed to generate token", err)
	}

	now := time.Now()
	session := domain.UserSession{
		Token:        t,
		UserID:       account.UserID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(m.sessionTTL),
	}
	if err := m.sessionRepo.Set(ctx, account.UserID, session, m.sessionTTL); err != nil {
		return "", errprocess.Internal("failed to store session", err)
	}

	return t, nil
}

// Logout 刪除 redis session
func (m *memberUseCase) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return errprocess.Unauthenticated("missing caller identity")
	}
	if err := m.sessionRepo.Del(ctx, userID); err != nil {
		return errprocess.Internal("failed to delete session", err)
	}
	return nil
}

// GetProfile 公開資料, 不需要是本人
func (m *memberUseCase) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := m.profileRepo.FindByUserID(ctx, userID)
	if err == database.ErrKeyNotFound {
		return nil, errprocess.NotFound("profile not found")
	} else if err != nil {
		return nil, errprocess.Internal("failed to load profile", err)
	}
	return profile, nil
}

// UpdateProfile 只有本人可以修改
func (m *memberUseCase) UpdateProfile(ctx context.Context, callerID, userID string, name, bio *string, expertise []string) (*domain.Profile, error) {
	if callerID == "" {
		return nil, errprocess.Unauthenticated("missing caller identity")
	}
	if callerID != userID {
		return nil, errprocess.Forbidden("cannot update another user's profile")
	}

	profile, err := m.profileRepo.FindByUserID(ctx, userID)
	if err == database.ErrKeyNotFound {
		return nil, errprocess.NotFound("profile not found")
	} else if err != nil {
		return nil, errprocess.Internal("failed to load profile", err)
	}

	if name != nil {
		profile.Name = *name
	}
	if bio != nil {
		profile.Bio = *bio
	}
	if expertise != nil {
		profile.Expertise = expertise
	}

	if err := m.profileRepo.Save(ctx, profile); err != nil {
		return nil, errprocess.Internal("failed to save profile", err)
	}
	return profile, nil
}

// ListMentors mentor 目錄
func (m *memberUseCase) ListMentors(ctx context.Context) ([]domain.Profile, error) {
	mentors, err := m.profileRepo.ListMentors(ctx)
	if err != nil {
		return nil, errprocess.Internal("failed to list mentors", err)
	}
	return mentors, nil
}
