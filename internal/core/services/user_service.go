package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SwapHands/item_trading_app/internal/apperrors"
	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portsrepo "github.com/SwapHands/item_trading_app/internal/core/ports/repositories"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
	"github.com/SwapHands/item_trading_app/internal/dto"
	"github.com/SwapHands/item_trading_app/internal/middleware"
	"github.com/SwapHands/item_trading_app/internal/utils"
)

// borrowBypassCredit is the credit score at which the borrow/lend balance
// rule stops applying.
var borrowBypassCredit = decimal.NewFromInt(1200)

// userService handles accounts, login tokens and per-status trading
// permissions.
type userService struct {
	store   portsrepo.Store
	ruleSvc portssvc.RuleSvc

	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

func NewUserService(store portsrepo.Store, ruleSvc portssvc.RuleSvc, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.UserSvc {
	return &userService{
		store:     store,
		ruleSvc:   ruleSvc,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		jwtIssuer: jwtIssuer,
	}
}

var _ portssvc.UserSvc = (*userService)(nil)

func (s *userService) Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.findByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %q is taken", apperrors.ErrDuplicate, req.Name)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := portsrepo.CreateOne(ctx, s.store, domain.NewUser(req.Name, hash, req.HomeCity, domain.StatusNormal))
	if err != nil {
		return nil, err
	}

	// Every account starts with an empty wishlist.
	if _, err := portsrepo.CreateOne(ctx, s.store, domain.NewWishlist(user.UserID)); err != nil {
		return nil, err
	}

	logger.Info("User registered", slog.Int("user_id", user.UserID), slog.String("name", user.Name))
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, name, password string) (string, *domain.User, error) {
	user, err := s.findByName(ctx, name)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
	}

	token, err := utils.GenerateJWT(user.UserID, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

func (s *userService) findByName(ctx context.Context, name string) (*domain.User, error) {
	users, err := portsrepo.AllAs[*domain.User](ctx, s.store)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, nil
}

func (s *userService) GetUser(ctx context.Context, userID int) (*domain.User, error) {
	return portsrepo.GetAs[*domain.User](ctx, s.store, userID)
}

func (s *userService) AllUsers(ctx context.Context) ([]*domain.User, error) {
	return portsrepo.AllAs[*domain.User](ctx, s.store)
}

func (s *userService) SetStatus(ctx context.Context, userID int, status domain.UserStatus) error {
	switch status {
	case domain.StatusNormal, domain.StatusAdmin, domain.StatusFrozen,
		domain.StatusRequestUnfreeze, domain.StatusVacation, domain.StatusDemo:
	default:
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
	}

	user, err := portsrepo.GetAs[*domain.User](ctx, s.store, userID)
	if err != nil {
		return err
	}

	if status == domain.StatusVacation {
		ok, err := s.CanVacation(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: open transactions prevent vacation", apperrors.ErrValidation)
		}
	}

	user.Status = status
	if err := portsrepo.UpdateOne(ctx, s.store, user); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("User status changed", slog.Int("user_id", userID), slog.String("status", string(status)))
	return nil
}

func (s *userService) IsAdmin(ctx context.Context, userID int) (bool, error) {
	user, err := portsrepo.GetAs[*domain.User](ctx, s.store, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

func (s *userService) IsFrozen(ctx context.Context, userID int) (bool, error) {
	user, err := portsrepo.GetAs[*domain.User](ctx, s.store, userID)
	if err != nil {
		return false, err
	}
	return user.Status == domain.StatusFrozen || user.Status == domain.StatusRequestUnfreeze, nil
}

func (s *userService) CanLend(ctx context.Context, userID int) (bool, error) {
	user, err := portsrepo.GetAs[*domain.User](ctx, s.store, userID)
	if err != nil {
		return false, err
	}
	return user.Status == domain.StatusNormal || user.Status == domain.StatusAdmin, nil
}

func (s *userService) CanBorrow(ctx context.Context, userID int) (bool, error) {
	user, err := portsrepo.GetAs[*domain.User](ctx, s.store, userID)
	if err != nil {
		return false, err
	}
	if user.Status != domain.StatusNormal && user.Status != domain.StatusAdmin {
		return false, nil
	}
	// Trusted traders are not held to the borrow/lend balance.
	if user.Credit.GreaterThanOrEqual(borrowBypassCredit) {
		return true, nil
	}
	violated, err := s.ruleSvc.Violate(ctx, domain.RuleNoMoreBorrowThanLend, userID)
	if err != nil {
		return false, err
	}
	return !violated, nil
}

func (s *userService) CanVacation(ctx context.Context, userID int) (bool, error) {
	user, err := portsrepo.GetAs[*domain.User](ctx, s.store, userID)
	if err != nil {
		return false, err
	}
	// Demo accounts carry no obligations.
	if user.Status == domain.StatusDemo {
		return true, nil
	}
	violated, err := s.ruleSvc.Violate(ctx, domain.RuleVacation, userID)
	if err != nil {
		return false, err
	}
	return !violated, nil
}
