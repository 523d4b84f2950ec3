package services

import "context"

// ConfigSvc exposes the live trading policy settings. Consumers subscribe for
// pushes instead of polling per call.
type ConfigSvc interface {
	Get(key string) string
	All() map[string]string
	Edit(ctx context.Context, key string, value int) error
	// Subscribe registers a listener; it is invoked immediately with the
	// current map and again after every edit.
	Subscribe(fn func(map[string]string))
}
