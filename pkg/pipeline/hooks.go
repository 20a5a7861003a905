package pipeline

import (
	"time"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/validation"
)

// Hooks receives events from a Runner. Implementations must be safe for
// concurrent use.
type Hooks interface {
	OnGenerate(duration time.Duration, blocks int)
	OnValidate(counts map[validation.Kind]int)
	OnHeat(duration time.Duration, cells int)
	OnCache(stage string, hit bool)
}

// NoopHooks ignores every event.
type NoopHooks struct{}

func (NoopHooks) OnGenerate(time.Duration, int)      {}
func (NoopHooks) OnValidate(map[validation.Kind]int) {}
func (NoopHooks) OnHeat(time.Duration, int)          {}
func (NoopHooks) OnCache(string, bool)               {}

var _ Hooks = NoopHooks{}
