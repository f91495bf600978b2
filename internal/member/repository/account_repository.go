package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"prepconnect_service/internal/member/domain"
	"prepconnect_service/pkg/database"
	"prepconnect_service/pkg/token"
)

// AccountRepository definition get account info
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	FindAccount(ctx context.Context, query *domain.AccountQuery) (*domain.Account, error)
}

type accountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository create a AccountRepository
func NewAccountRepository(db *pgxpool.Pool) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO account(user_id, email, password, user_type) VALUES ($1, $2, $3, $4)",
		account.UserID, account.Email, account.Password, string(account.UserType))
	return err
}

func (r *accountRepository) FindAccount(ctx context.Context, query *domain.AccountQuery) (*domain.Account, error) {
	queryStr := "SELECT id, user_id, email, password, user_type FROM account WHERE 1=1"
	params := []interface{}{}
	paramCount := 1

	if query.Email != nil {
		queryStr += fmt.Sprintf(" AND email = $%d", paramCount)
		params = append(params, *query.Email)
		paramCount++
	}
	if query.UserID != nil {
		queryStr += fmt.Sprintf(" AND user_id = $%d", paramCount)
		params = append(params, *query.UserID)
		paramCount++
	}
	if query.ID != nil {
		queryStr += fmt.Sprintf(" AND id = $%d", paramCount)
		params = append(params, *query.ID)
		paramCount++
	}

	row := r.db.QueryRow(ctx, queryStr, params...)
	var (
		account  domain.Account
		userType string
	)
	err := row.Scan(&account.ID, &account.UserID, &account.Email, &account.Password, &userType)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, database.ErrKeyNotFound
		}
		return nil, err
	}
	account.UserType = token.UserType(userType)

	return &account, nil
}
