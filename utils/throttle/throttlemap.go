package throttle

import (
	"sync"
	"time"

	"github.com/boz/go-throttle"
	"github.com/lthibault/jitterbug/v2"
)

// ThrottleMap キーごとにコールバックの呼び出し頻度を制限します
type ThrottleMap[K comparable] struct {
	throttles map[K]*throttleEntry
	interval  time.Duration
	ttl       time.Duration
	mu        sync.Mutex
	callback  func(K)
	stop      chan struct{}
	stopOnce  sync.Once
}

type throttleEntry struct {
	driver        throttle.ThrottleDriver
	lastTriggered time.Time
}

// NewThrottleMap creates a new ThrottleMap.
// The callback function will be called with the key when the throttle is triggered.
// The interval is the time period in which the callback can be triggered at most once.
// The ttl is the time to live for each key in the map, after which it will be removed.
func NewThrottleMap[K comparable](interval, ttl time.Duration, callback func(K)) *ThrottleMap[K] {
	t := &ThrottleMap[K]{
		throttles: make(map[K]*throttleEntry),
		interval:  interval,
		ttl:       ttl,
		callback:  callback,
		stop:      make(chan struct{}),
	}
	go t.gcLoop()
	return t
}

// Trigger triggers the throttle for the given key.
// The first trigger calls back immediately, and the ones within the interval are
// coalesced into a single trailing call.
func (tm *ThrottleMap[K]) Trigger(key K) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	select {
	case <-tm.stop:
		return
	default:
	}

	entry, exists := tm.throttles[key]
	if !exists {
		entry = &throttleEntry{
			driver: throttle.ThrottleFunc(tm.interval, true, func() {
				tm.callback(key)
			}),
		}
		tm.throttles[key] = entry
	}
	entry.lastTriggered = time.Now()
	entry.driver.Trigger()
}

// Len 保持しているキーの数
func (tm *ThrottleMap[K]) Len() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.throttles)
}

// Stop 全てのスロットルを停止します. 保留中のコールバックは呼ばれません
func (tm *ThrottleMap[K]) Stop() {
	tm.stopOnce.Do(func() {
		close(tm.stop)
		tm.mu.Lock()
		defer tm.mu.Unlock()
		for key, entry := range tm.throttles {
			entry.driver.Stop()
			delete(tm.throttles, key)
		}
	})
}

func (tm *ThrottleMap[K]) gcLoop() {
	// 複数のマップのGCが同時に走らないようにずらす
	ticker := jitterbug.New(tm.ttl/2, &jitterbug.Norm{Stdev: tm.ttl / 20})
	defer ticker.Stop()
	for {
		select {
		case <-tm.stop:
			return
		case now := <-ticker.C:
			tm.mu.Lock()
			for key, entry := range tm.throttles {
				if now.Sub(entry.lastTriggered) > tm.ttl {
					entry.driver.Stop()
					delete(tm.throttles, key)
				}
			}
			tm.mu.Unlock()
		}
	}
}
