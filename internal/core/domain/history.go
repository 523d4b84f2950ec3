package domain

import "strconv"

// History is the audit record of one user-visible mutating action. Rows are
// never deleted; undoing an action flags the row and appends to its display
// string.
type History struct {
	HistoryID     int               `json:"historyID"`
	ActionName    string            `json:"actionName"`
	Data          map[string]string `json:"data"`
	DisplayString string            `json:"displayString"`
	Undone        bool              `json:"undone"`
}

// Names of the auditable actions recorded in History rows.
const (
	ActionAddToWishlist       = "addToWishlist"
	ActionApproveItem         = "approveItem"
	ActionInitiateTransaction = "initiateTransaction"
)

// NewHistory starts an audit record for the named action.
func NewHistory(actionName string) *History {
	return &History{ActionName: actionName, Data: map[string]string{}}
}

// Set stores a payload value under the given key.
func (h *History) Set(key, value string) {
	if h.Data == nil {
		h.Data = map[string]string{}
	}
	h.Data[key] = value
}

// SetInt stores an integer payload value.
func (h *History) SetInt(key string, value int) {
	h.Set(key, strconv.Itoa(value))
}

// Get returns the payload value for the key, or "" when absent.
func (h *History) Get(key string) string {
	return h.Data[key]
}

// Int returns the integer payload value for the key.
func (h *History) Int(key string) (int, error) {
	return strconv.Atoi(h.Data[key])
}

func (h *History) Key() int                  { return h.HistoryID }
func (h *History) SetKey(id int)             { h.HistoryID = id }
func (h *History) Kind() Kind                { return KindHistory }
func (h *History) Relations() map[string][]int { return nil }

func (h *History) Clone() Entity {
	c := *h
	c.Data = make(map[string]string, len(h.Data))
	for k, v := range h.Data {
		c.Data[k] = v
	}
	return &c
}
