package domain

import "github.com/shopspring/decimal"

// UserStatus is the account state driving trading permissions.
type UserStatus string

const (
	StatusNormal          UserStatus = "normal"
	StatusAdmin           UserStatus = "admin"
	StatusFrozen          UserStatus = "frozen"
	StatusRequestUnfreeze UserStatus = "requestUnfreeze"
	StatusVacation        UserStatus = "vacation"
	StatusDemo            UserStatus = "demo"
)

// User is a registered account. Credit is a score derived from trading
// history; a high enough score relaxes the borrow/lend policy.
type User struct {
	UserID       int             `json:"userID"`
	Name         string          `json:"name"`
	PasswordHash string          `json:"passwordHash"`
	Status       UserStatus      `json:"status"`
	Credit       decimal.Decimal `json:"credit"`
	HomeCity     string          `json:"homeCity"`
}

// NewUser registers an account with the given bcrypt hash and status.
func NewUser(name, passwordHash, homeCity string, status UserStatus) *User {
	return &User{
		Name:         name,
		PasswordHash: passwordHash,
		HomeCity:     homeCity,
		Status:       status,
	}
}

// IsAdmin reports whether the account has admin status.
func (u *User) IsAdmin() bool {
	return u.Status == StatusAdmin
}

func (u *User) Key() int                  { return u.UserID }
func (u *User) SetKey(id int)             { u.UserID = id }
func (u *User) Kind() Kind                { return KindUser }
func (u *User) Relations() map[string][]int { return nil }

func (u *User) Clone() Entity {
	c := *u
	return &c
}
