package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/leandro-lugaresi/hub"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/traPtitech/identfavicon/event"
	"github.com/traPtitech/identfavicon/router"
	"github.com/traPtitech/identfavicon/service/favicon"
	"github.com/traPtitech/identfavicon/service/icon"
)

// serveCommand サーバー起動コマンド
func serveCommand() *cobra.Command {
	cmd := cobra.Command{
		Use:   "serve",
		Short: "Serve identfavicon API",
		Run: func(_ *cobra.Command, _ []string) {
			// Logger
			logger := getLogger()
			defer logger.Sync()

			logger.Info(fmt.Sprintf("identfavicon %s (revision %s)", Version, Revision))

			// サーバー作成
			server, err := newServer(hub.New(), logger, &c)
			if err != nil {
				logger.Fatal("failed to create server", zap.Error(err))
			}

			server.StartWorkers()
			go func() {
				if err := server.Start(fmt.Sprintf(":%d", c.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped unexpectedly", zap.Error(err))
				}
			}()

			logger.Info("identfavicon started", zap.String("origin", c.Origin))
			waitSignal()
			logger.Info("identfavicon shutting down...")

			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.ShutdownTimeout)*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				logger.Warn("abnormal shutdown", zap.Error(err))
			}
			logger.Info("identfavicon shutdown")
		},
	}

	flags := cmd.Flags()
	flags.Int("port", 3000, "port number to listen")
	bindPFlag(flags, "port")

	return &cmd
}

// Server identfaviconサーバー
type Server struct {
	L         *zap.Logger
	Router    *echo.Echo
	Hub       *hub.Hub
	Icons     icon.Manager
	Scheduler *favicon.Scheduler
}

func newServer(h *hub.Hub, logger *zap.Logger, c *Config) (*Server, error) {
	icons, err := icon.NewManager(provideIconConfig(c), logger)
	if err != nil {
		return nil, fmt.Errorf("icon manager: %w", err)
	}
	detector, err := favicon.NewDetector(provideDetectorConfig(c), logger)
	if err != nil {
		return nil, fmt.Errorf("favicon detector: %w", err)
	}
	scheduler := favicon.NewScheduler(provideSchedulerConfig(c), h, detector, icons, logger)

	return &Server{
		L:         logger,
		Router:    router.Setup(h, icons, detector, logger, provideRouterConfig(c)),
		Hub:       h,
		Icons:     icons,
		Scheduler: scheduler,
	}, nil
}

// StartWorkers スケジューラーとイベントの購読を開始します
//
// Start, Shutdownより前に呼び出してください。
func (s *Server) StartWorkers() {
	sub := s.Hub.Subscribe(10, event.IdenticonGenerated)
	go func() {
		for ev := range sub.Receiver {
			s.L.Debug("identicon generated",
				zap.Any("url", ev.Fields["url"]),
				zap.Any("host", ev.Fields["host"]),
			)
		}
	}()
	s.Scheduler.Start()
}

// Start HTTPサーバーを起動します
func (s *Server) Start(address string) error {
	return s.Router.Start(address)
}

// Shutdown サーバーを停止します
func (s *Server) Shutdown(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		err := s.Router.Shutdown(ctx)
		s.L.Info("Router shutdown")
		return err
	})
	eg.Go(func() error {
		s.Scheduler.Shutdown()
		s.L.Info("Scheduler shutdown")
		return nil
	})
	err := eg.Wait()
	s.Hub.Close()
	s.Icons.Purge()
	return err
}

func waitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
}
