package dto

import "github.com/shopspring/decimal"

type AddItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ForSale     bool            `json:"forSale"`
	TagNames    []string        `json:"tagNames"`
}

type ItemResponse struct {
	ItemID      int             `json:"itemID"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	OwnerID     int             `json:"ownerID"`
	HolderID    int             `json:"holderID"`
	Price       decimal.Decimal `json:"price"`
	ForSale     bool            `json:"forSale"`
	Reserved    bool            `json:"reserved"`
}

type EditConfigRequest struct {
	Value int `json:"value" binding:"required"`
}
