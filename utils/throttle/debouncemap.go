package throttle

import (
	"sync"
	"time"

	"github.com/bep/debounce"
)

// DebounceMap キーごとに、最後のTriggerからdelay経過後にコールバックを1回呼びます
type DebounceMap[K comparable] struct {
	debouncers map[K]*debounceEntry
	delay      time.Duration
	mu         sync.Mutex
	callback   func(K)
	stopped    bool
}

type debounceEntry struct {
	debounced func(f func())
	gen       uint64
}

// NewDebounceMap creates a new DebounceMap.
func NewDebounceMap[K comparable](delay time.Duration, callback func(K)) *DebounceMap[K] {
	return &DebounceMap[K]{
		debouncers: make(map[K]*debounceEntry),
		delay:      delay,
		callback:   callback,
	}
}

// Trigger keyのタイマーを(再)始動します
func (dm *DebounceMap[K]) Trigger(key K) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.stopped {
		return
	}

	entry, ok := dm.debouncers[key]
	if !ok {
		entry = &debounceEntry{debounced: debounce.New(dm.delay)}
		dm.debouncers[key] = entry
	}
	entry.gen++
	gen := entry.gen
	entry.debounced(func() { dm.fire(key, gen) })
}

func (dm *DebounceMap[K]) fire(key K, gen uint64) {
	dm.mu.Lock()
	entry, ok := dm.debouncers[key]
	// 発火直前に再Triggerされた場合は新しい方に任せる
	if !ok || dm.stopped || entry.gen != gen {
		dm.mu.Unlock()
		return
	}
	delete(dm.debouncers, key)
	dm.mu.Unlock()

	dm.callback(key)
}

// Pending コールバック待ちのキーの数
func (dm *DebounceMap[K]) Pending() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return len(dm.debouncers)
}

// Stop 以降のTriggerを無視し、保留中のコールバックを破棄します
func (dm *DebounceMap[K]) Stop() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.stopped = true
	clear(dm.debouncers)
}
