package favicon

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/leandro-lugaresi/hub"
	"go.uber.org/zap"

	"github.com/traPtitech/identfavicon/event"
	"github.com/traPtitech/identfavicon/service/icon"
	"github.com/traPtitech/identfavicon/utils/throttle"
)

const subscriptionBuffer = 100

// Checker ページのfaviconの有無を調べるもの
type Checker interface {
	Detect(ctx context.Context, u *url.URL) (*Result, error)
	Forget(u *url.URL)
}

// SchedulerConfig 再生成スケジューラー設定
type SchedulerConfig struct {
	// NavigationDelay ページ遷移からチェックまでの待ち時間
	NavigationDelay time.Duration
	// MutationDelay head要素の変更からチェックまでの待ち時間
	MutationDelay time.Duration
	// MinInterval 同一ページのチェック間隔の下限
	MinInterval time.Duration
	// TTL ページごとの状態の保持時間
	TTL time.Duration
	// IconSize 生成するアイコンの一辺の長さ
	IconSize int
}

// Scheduler ページ遷移・head変更イベントを購読し、faviconが無ければidenticonを生成します
//
// 生成結果はevent.IdenticonGeneratedとしてhubに発行されます。
type Scheduler struct {
	c       SchedulerConfig
	hub     *hub.Hub
	checker Checker
	icons   icon.Manager
	l       *zap.Logger

	navigation *throttle.DebounceMap[string]
	mutation   *throttle.DebounceMap[string]
	limiter    *throttle.ThrottleMap[string]

	ctx     context.Context
	cancel  context.CancelFunc
	sub     hub.Subscription
	wg      sync.WaitGroup
	mu      sync.Mutex
	closing bool
	once    sync.Once
}

// NewScheduler Schedulerを生成します
func NewScheduler(c SchedulerConfig, h *hub.Hub, checker Checker, icons icon.Manager, logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		c:       c,
		hub:     h,
		checker: checker,
		icons:   icons,
		l:       logger.Named("favicon_scheduler"),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.limiter = throttle.NewThrottleMap(c.MinInterval, c.TTL, s.check)
	s.navigation = throttle.NewDebounceMap(c.NavigationDelay, s.limiter.Trigger)
	s.mutation = throttle.NewDebounceMap(c.MutationDelay, s.limiter.Trigger)
	return s
}

// Start イベントの購読を開始します
//
// Shutdownより前に呼び出す必要があります。
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return
	}
	sub := s.hub.Subscribe(subscriptionBuffer, event.PageNavigated, event.HeadMutated)
	s.sub = sub
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for ev := range sub.Receiver {
			s.handle(ev)
		}
	}()
}

// Shutdown 購読を停止し、保留中のチェックを破棄します
//
// 実行中のチェックは終了するまで待ちます。
func (s *Scheduler) Shutdown() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closing = true
		s.mu.Unlock()

		s.cancel()
		if s.sub.Receiver != nil {
			s.hub.Unsubscribe(s.sub)
		}
		s.navigation.Stop()
		s.mutation.Stop()
		s.limiter.Stop()
		s.wg.Wait()
	})
}

func (s *Scheduler) handle(ev hub.Message) {
	raw, _ := ev.Fields["url"].(string)
	u, err := ParseURL(raw)
	if err != nil {
		s.l.Debug("ignored event with invalid url", zap.String("topic", ev.Name), zap.String("url", raw))
		return
	}
	key := u.String()

	switch ev.Name {
	case event.PageNavigated:
		s.navigation.Trigger(key)
	case event.HeadMutated:
		s.mutation.Trigger(key)
	}
}

func (s *Scheduler) check(key string) {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	u, err := url.Parse(key)
	if err != nil {
		return
	}
	// ページの状態が変わっているので検出し直す
	s.checker.Forget(u)
	if _, _, err := s.Ensure(s.ctx, u); err != nil && !errors.Is(err, context.Canceled) {
		s.l.Warn("failed to ensure favicon", zap.String("url", key), zap.Error(err))
	}
}

// Ensure ページにfaviconが無ければidenticonを生成してイベントを発行します
//
// faviconがある場合はpngがnilになります。
func (s *Scheduler) Ensure(ctx context.Context, u *url.URL) (res *Result, png []byte, err error) {
	res, err = s.checker.Detect(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	if !res.NeedsIdenticon {
		s.hub.Publish(hub.Message{
			Name: event.FaviconFound,
			Fields: hub.Fields{
				"url":   res.URL,
				"host":  res.Seed,
				"links": Hrefs(res.Links),
			},
		})
		return res, nil, nil
	}

	png, err = s.icons.Get(ctx, res.Seed, s.c.IconSize)
	if err != nil {
		return nil, nil, err
	}
	s.hub.Publish(hub.Message{
		Name: event.IdenticonGenerated,
		Fields: hub.Fields{
			"url":  res.URL,
			"host": res.Seed,
			"size": s.c.IconSize,
			"png":  png,
		},
	})
	s.l.Info("identicon generated", zap.String("url", res.URL), zap.String("host", res.Seed))
	return res, png, nil
}
