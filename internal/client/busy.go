package client

import "sync"

// busyGuard 按控件键防止重复提交
type busyGuard struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newBusyGuard() *busyGuard {
	return &busyGuard{keys: make(map[string]bool)}
}

// acquire 占用 key，返回释放函数；已被占用时返回 ErrBusy
func (b *busyGuard) acquire(key string) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.keys[key] {
		return nil, ErrBusy
	}
	b.keys[key] = true
	return func() {
		b.mu.Lock()
		delete(b.keys, key)
		b.mu.Unlock()
	}, nil
}

// Busy key 是否在进行中
func (b *busyGuard) Busy(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.keys[key]
}
