package domain

// Wishlist holds the item ids one user wants to borrow or buy. Each user owns
// exactly one wishlist, created when they register.
type Wishlist struct {
	WishlistID int   `json:"wishlistID"`
	OwnerID    int   `json:"ownerID"`
	ItemIDs    []int `json:"itemIDs"`
}

// NewWishlist creates an empty wishlist for the user.
func NewWishlist(ownerID int) *Wishlist {
	return &Wishlist{OwnerID: ownerID}
}

// Contains reports whether the item is on the list.
func (w *Wishlist) Contains(itemID int) bool {
	for _, id := range w.ItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// Add appends the item unless it is already present.
func (w *Wishlist) Add(itemID int) bool {
	if w.Contains(itemID) {
		return false
	}
	w.ItemIDs = append(w.ItemIDs, itemID)
	return true
}

// Remove drops every occurrence of the item.
func (w *Wishlist) Remove(itemID int) {
	kept := w.ItemIDs[:0]
	for _, id := range w.ItemIDs {
		if id != itemID {
			kept = append(kept, id)
		}
	}
	w.ItemIDs = kept
}

func (w *Wishlist) Key() int                  { return w.WishlistID }
func (w *Wishlist) SetKey(id int)             { w.WishlistID = id }
func (w *Wishlist) Kind() Kind                { return KindWishlist }
func (w *Wishlist) Relations() map[string][]int { return nil }

func (w *Wishlist) Clone() Entity {
	c := *w
	c.ItemIDs = cloneInts(w.ItemIDs)
	return &c
}
