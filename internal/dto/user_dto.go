package dto

import "github.com/shopspring/decimal"

type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	HomeCity string `json:"homeCity"`
}

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	UserID   int             `json:"userID"`
	Name     string          `json:"name"`
	Status   string          `json:"status"`
	Credit   decimal.Decimal `json:"credit"`
	HomeCity string          `json:"homeCity,omitempty"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
