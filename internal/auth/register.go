package auth

import (
	"context"
	"strings"

	"github.com/dkurilenko/freshmart-backend/internal/accounts"
	"github.com/dkurilenko/freshmart-backend/internal/users"
	"github.com/dkurilenko/freshmart-backend/pkg/config"
	pkgdb "github.com/dkurilenko/freshmart-backend/pkg/db"
	"github.com/dkurilenko/freshmart-backend/pkg/db/models"
	pkgerrors "github.com/dkurilenko/freshmart-backend/pkg/errors"
	"github.com/dkurilenko/freshmart-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TxRunner executes fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RegisterService handles the signup transaction. The user and their
// zero-balance account are created together: a user without an account
// never exists.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner       TxRunner
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	tx          TxRunner
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	return &registerService{
		tx:          params.TxRunner,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required").
			WithDetails(map[string]string{"username": "is required"})
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required").
			WithDetails(map[string]string{"email": "is required"})
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
		IsActive:     true,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		accountRepo := accounts.NewRepository(tx)

		if err := userRepo.Create(ctx, user); err != nil {
			if pkgdb.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "username or email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		account := &models.Account{
			ID:     uuid.New(),
			UserID: user.ID,
			Amount: decimal.Zero,
		}
		if err := accountRepo.Create(ctx, account); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create account")
		}
		user.Account = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	return users.FromModel(user), nil
}
