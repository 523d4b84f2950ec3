package domain

// Config is one persisted policy setting, so admin edits survive restarts.
type Config struct {
	ConfigID int    `json:"configID"`
	Name     string `json:"name"`
	Value    string `json:"value"`
}

func (c *Config) Key() int                  { return c.ConfigID }
func (c *Config) SetKey(id int)             { c.ConfigID = id }
func (c *Config) Kind() Kind                { return KindConfig }
func (c *Config) Relations() map[string][]int { return nil }

func (c *Config) Clone() Entity {
	cp := *c
	return &cp
}
