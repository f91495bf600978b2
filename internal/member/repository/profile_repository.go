package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"prepconnect_service/internal/member/domain"
	"prepconnect_service/pkg/database"
	"prepconnect_service/pkg/token"
)

// ProfileKeyPrefix profile record 的命名空間
const ProfileKeyPrefix = "profile:"

// ProfileRepository definition profile 對 KV backend 的轉譯
type ProfileRepository interface {
	Save(ctx context.Context, profile *domain.Profile) error
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	// ListMentors 回傳所有 mentor profile, name 升冪
	ListMentors(ctx context.Context) ([]domain.Profile, error)
}

type kvProfileRepository struct {
	kv database.KVStore
}

// NewKVProfileRepository create a ProfileRepository over the generic KV backend
func NewKVProfileRepository(kv database.KVStore) ProfileRepository {
	return &kvProfileRepository{kv: kv}
}

func (r *kvProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := r.kv.Set(ctx, ProfileKeyPrefix+profile.UserID, data, 0); err != nil {
		return fmt.Errorf("failed to save profile %s: %w", profile.UserID, err)
	}
	return nil
}

func (r *kvProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	data, err := r.kv.Get(ctx, ProfileKeyPrefix+userID)
	if err == database.ErrKeyNotFound {
		return nil, err
	} else if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", userID, err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("malformed profile record %s: %w", userID, err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("malformed profile record %s: %w", userID, err)
	}
	return &profile, nil
}

func (r *kvProfileRepository) ListMentors(ctx context.Context) ([]domain.Profile, error) {
	raws, err := r.kv.GetByPrefix(ctx, ProfileKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}

	var mentors []domain.Profile
	for _, raw := range raws {
		var profile domain.Profile
		if err := json.Unmarshal(raw, &profile); err != nil {
			return nil, fmt.Errorf("malformed profile record: %w", err)
		}
		if err := profile.Validate(); err != nil {
			return nil, fmt.Errorf("malformed profile record: %w", err)
		}

		if profile.UserType == token.UserTypeMentor {
			mentors = append(mentors, profile)
		}
	}

	sort.Slice(mentors, func(i, j int) bool {
		if mentors[i].Name != mentors[j].Name {
			return mentors[i].Name < mentors[j].Name
		}
		return mentors[i].UserID < mentors[j].UserID
	})
	return mentors, nil
}
