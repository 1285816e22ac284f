package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"tutor-desk/internal/bot"
	"tutor-desk/internal/logger"
	"tutor-desk/internal/migrate"
	"tutor-desk/internal/models/config"
	"tutor-desk/internal/repository"
	"tutor-desk/internal/repository/lesson"
	"tutor-desk/internal/repository/student"
	"tutor-desk/internal/repository/subscription"
	"tutor-desk/internal/repository/teacher"
	"tutor-desk/internal/service"
	lesson_service "tutor-desk/internal/service/lesson"
	subscription_service "tutor-desk/internal/service/subscription"
	"tutor-desk/internal/web"
	database "tutor-desk/pkg"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// New assembles the HTTP service and the optional admin bot.
func New(cfg *config.Config) *fx.App {
	return fx.New(Options(cfg))
}

func Options(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(
			logger.New,
			newDatabase,
			student.NewStudentRepository,
			teacher.NewTeacherRepository,
			subscription.NewSubscriptionRepository,
			lesson.NewLessonRepository,
			newNotifier,
			subscription_service.NewSubscriptionService,
			lesson_service.NewLessonService,
			web.NewHandler,
			web.NewRouter,
		),
		fx.Invoke(registerHTTPServer),
	)
}

type databaseParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Log       *zap.Logger
}

func newDatabase(p databaseParams) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewDatabase(ctx, p.Config.Database)
	if err != nil {
		return nil, err
	}
	if p.Config.Database.AutoMigrate {
		if err := migrate.Up(ctx, db.DB, p.Config.Database.Driver, p.Log); err != nil {
			db.Close()
			return nil, err
		}
		p.Log.Info("migrations applied", zap.String("driver", p.Config.Database.Driver))
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

type notifierParams struct {
	fx.In

	Lifecycle     fx.Lifecycle
	Config        *config.Config
	Subscriptions repository.SubscriptionRepository
	Log           *zap.Logger
}

// newNotifier starts the telegram bot when a token is configured. Without
// one, notifications are dropped.
func newNotifier(p notifierParams) (service.Notifier, error) {
	if p.Config.Bot.Token == "" {
		p.Log.Info("BOT_TOKEN is empty, admin notifications disabled")
		return service.NopNotifier{}, nil
	}

	b, err := bot.NewBot(p.Config.Bot, p.Subscriptions, p.Log)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := b.Start(ctx); err != nil {
					p.Log.Error("bot stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
	return b, nil
}

type serverParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Config     *config.Config
	Router     *gin.Engine
	Log        *zap.Logger
}

func registerHTTPServer(p serverParams) {
	srv := &http.Server{
		Addr:         ":" + p.Config.HTTP.Port,
		Handler:      p.Router,
		ReadTimeout:  p.Config.HTTP.ReadTimeout,
		WriteTimeout: p.Config.HTTP.WriteTimeout,
	}
	log := p.Log.Named("server")

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			log.Info("http server started", zap.String("addr", srv.Addr))

			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server failed", zap.Error(err))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, p.Config.HTTP.ShutdownTimeout)
			defer cancel()
			log.Info("shutting down http server")
			return srv.Shutdown(ctx)
		},
	})
}
