package domain

import "github.com/shopspring/decimal"

// Item is a listed good. The holder may differ from the owner while a loan is
// in flight; Reserved is true exactly while the item is locked into an
// incomplete trade.
type Item struct {
	ItemID      int             `json:"itemID"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OwnerID     int             `json:"ownerID"`
	HolderID    int             `json:"holderID"`
	Price       decimal.Decimal `json:"price"`
	ForSale     bool            `json:"forSale"`
	Visible     bool            `json:"visible"`
	SoftDeleted bool            `json:"softDeleted"`
	Reserved    bool            `json:"reserved"`
}

// NewItem lists an item for the given owner. New items start invisible until
// an admin approves them, and the owner holds their own item.
func NewItem(name, description string, ownerID int, price decimal.Decimal, forSale bool) *Item {
	return &Item{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		HolderID:    ownerID,
		Price:       price,
		ForSale:     forSale,
	}
}

// SwapHolder moves custody between the two trade parties: whichever of the
// pair currently holds the item hands it to the other.
func (i *Item) SwapHolder(user1, user2 int) {
	if i.HolderID == user1 {
		i.HolderID = user2
	} else {
		i.HolderID = user1
	}
}

// SwapOwner transfers title between the two trade parties, mirroring SwapHolder.
func (i *Item) SwapOwner(user1, user2 int) {
	if i.OwnerID == user1 {
		i.OwnerID = user2
	} else {
		i.OwnerID = user1
	}
}

func (i *Item) Key() int                  { return i.ItemID }
func (i *Item) SetKey(id int)             { i.ItemID = id }
func (i *Item) Kind() Kind                { return KindItem }
func (i *Item) Relations() map[string][]int { return nil }

func (i *Item) Clone() Entity {
	c := *i
	return &c
}
