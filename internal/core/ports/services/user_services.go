package services

import (
	"context"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	"github.com/SwapHands/item_trading_app/internal/dto"
)

// UserSvc handles accounts, authentication and trading permissions.
type UserSvc interface {
	Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	// Authenticate checks the password and returns a signed token with the
	// authenticated user.
	Authenticate(ctx context.Context, name, password string) (string, *domain.User, error)
	GetUser(ctx context.Context, userID int) (*domain.User, error)
	AllUsers(ctx context.Context) ([]*domain.User, error)
	SetStatus(ctx context.Context, userID int, status domain.UserStatus) error

	IsAdmin(ctx context.Context, userID int) (bool, error)
	IsFrozen(ctx context.Context, userID int) (bool, error)
	// CanLend reports whether the user is in a status that allows lending.
	CanLend(ctx context.Context, userID int) (bool, error)
	// CanBorrow additionally enforces the borrow/lend balance rule, which
	// a high enough credit score waives.
	CanBorrow(ctx context.Context, userID int) (bool, error)
	// CanVacation reports whether the user may switch to vacation status.
	CanVacation(ctx context.Context, userID int) (bool, error)
}

// CreditSvc keeps the credit scores that reward completed trades.
type CreditSvc interface {
	// AwardCompleted credits both parties of a finished transaction.
	AwardCompleted(ctx context.Context, transactionID int) error
	// PenalizeCancelled debits both parties of a cancelled transaction.
	PenalizeCancelled(ctx context.Context, transactionID int) error
}
