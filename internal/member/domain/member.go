package domain

import (
	"time"

	"prepconnect_service/pkg/encrypt"
	errprocess "prepconnect_service/pkg/err"
	"prepconnect_service/pkg/token"
)

// Account 用來表示登入帳號, 存於 PostgreSQL
type Account struct {
	ID       int64
	UserID   string
	Email    string
	Password string
	UserType token.UserType
}

// IsPasswordMatch 密碼驗證
func (a *Account) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(a.Password, inputPwd)
}

// AccountQuery join conditions are used to query accounts
type AccountQuery struct {
	ID     *int64  `db:"id"`
	UserID *string `db:"user_id"`
	Email  *string `db:"email"`
}

// UserSession 用來表示使用者的 Session, 存於 redis
type UserSession struct {
	Token        string    `json:"Token"`
	UserID       string    `json:"UserID"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// IsExpired 檢查 Session 是否已過期
func (s *UserSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// Profile 公開的使用者資料, 存於 KV backend
type Profile struct {
	UserID    string         `json:"id"`
	Name      string         `json:"name"`
	UserType  token.UserType `json:"userType"`
	Bio       string         `json:"bio,omitempty"`
	Expertise []string       `json:"expertise,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Validate 在 store adapter 邊界檢查 record
func (p *Profile) Validate() error {
	if p.UserID == "" {
		return errprocess.InvalidArgument("profile user id is required")
	}
	if p.Name == "" {
		return errprocess.InvalidArgument("profile name is required")
	}
	if p.UserType != token.UserTypeStudent && p.UserType != token.UserTypeMentor {
		return errprocess.InvalidArgument("profile user type must be student or mentor")
	}
	return nil
}
