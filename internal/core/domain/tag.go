package domain

// Tag labels a set of items. The tag side owns the forward id list; items find
// their tags through the reverse relation scan.
type Tag struct {
	TagID   int    `json:"tagID"`
	Name    string `json:"name"`
	ItemIDs []int  `json:"itemIDs"`
}

// NewTag creates a tag over the given items.
func NewTag(name string, itemIDs []int) *Tag {
	return &Tag{Name: name, ItemIDs: itemIDs}
}

func (t *Tag) Key() int      { return t.TagID }
func (t *Tag) SetKey(id int) { t.TagID = id }
func (t *Tag) Kind() Kind    { return KindTag }

func (t *Tag) Relations() map[string][]int {
	return map[string][]int{"items": t.ItemIDs}
}

func (t *Tag) Clone() Entity {
	c := *t
	c.ItemIDs = cloneInts(t.ItemIDs)
	return &c
}
