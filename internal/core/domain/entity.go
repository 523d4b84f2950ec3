package domain

// Kind identifies a persisted entity collection.
type Kind string

const (
	KindItem        Kind = "items"
	KindTrade       Kind = "trades"
	KindMeeting     Kind = "meetings"
	KindTransaction Kind = "transactions"
	KindHistory     Kind = "histories"
	KindUser        Kind = "users"
	KindWishlist    Kind = "wishlists"
	KindTag         Kind = "tags"
	KindConfig      Kind = "configs"
)

// Entity is implemented by every persisted aggregate. Keys are dense integers
// assigned by the store; a zero key marks an entity that has not been
// persisted yet.
type Entity interface {
	Key() int
	SetKey(id int)
	Kind() Kind
	// Relations returns the forward foreign-key lists this entity declares,
	// keyed by relation name. Entities with no forward relations return nil.
	Relations() map[string][]int
	// Clone returns a deep copy so stores can hand out values that do not
	// alias their internal state.
	Clone() Entity
}

// New returns a fresh zero entity for the given kind. Stores use it to decode
// persisted documents back into their concrete types.
func New(kind Kind) (Entity, bool) {
	switch kind {
	case KindItem:
		return &Item{}, true
	case KindTrade:
		return &Trade{}, true
	case KindMeeting:
		return &Meeting{}, true
	case KindTransaction:
		return &Transaction{}, true
	case KindHistory:
		return &History{}, true
	case KindUser:
		return &User{}, true
	case KindWishlist:
		return &Wishlist{}, true
	case KindTag:
		return &Tag{}, true
	case KindConfig:
		return &Config{}, true
	}
	return nil, false
}

func cloneInts(src []int) []int {
	if src == nil {
		return nil
	}
	out := make([]int, len(src))
	copy(out, src)
	return out
}
