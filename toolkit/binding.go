package toolkit

import "sync"

// NewBinding wraps a release function in a Binding that runs it at most once.
func NewBinding(release func()) Binding {
	return &onceBinding{release: release}
}

type onceBinding struct {
	once    sync.Once
	release func()
}

func (b *onceBinding) Release() {
	b.once.Do(b.release)
}
