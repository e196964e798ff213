package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/Nate91117/teamnotes/api/handler"
	"github.com/Nate91117/teamnotes/internal/config"
	"github.com/Nate91117/teamnotes/internal/infrastructure/buffer"
	"github.com/Nate91117/teamnotes/internal/infrastructure/monitor"
	pgInfra "github.com/Nate91117/teamnotes/internal/infrastructure/postgres"
	redisInfra "github.com/Nate91117/teamnotes/internal/infrastructure/redis"
	"github.com/Nate91117/teamnotes/internal/middleware"
	"github.com/Nate91117/teamnotes/internal/router"
	"github.com/Nate91117/teamnotes/internal/services"
	"github.com/Nate91117/teamnotes/internal/services/lifecycle"
	"github.com/Nate91117/teamnotes/pkg/httpcontext"
	"github.com/Nate91117/teamnotes/pkg/logger"
	"github.com/Nate91117/teamnotes/repository/postgres"
	redisRepo "github.com/Nate91117/teamnotes/repository/redis"
	authUC "github.com/Nate91117/teamnotes/usecase/auth"
	dashboardUC "github.com/Nate91117/teamnotes/usecase/dashboard"
	goalUC "github.com/Nate91117/teamnotes/usecase/goal"
	noteUC "github.com/Nate91117/teamnotes/usecase/note"
	pgoalUC "github.com/Nate91117/teamnotes/usecase/personalgoal"
	"github.com/Nate91117/teamnotes/usecase/recurrence"
	reportUC "github.com/Nate91117/teamnotes/usecase/report"
	taskUC "github.com/Nate91117/teamnotes/usecase/task"
	teamUC "github.com/Nate91117/teamnotes/usecase/team"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pgInfra.Close(pool, zapLogger)
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	profileRepo := postgres.NewProfileRepository(pool)
	teamRepo := postgres.NewTeamRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	invitationRepo := postgres.NewInvitationRepository(pool)
	goalRepo := postgres.NewGoalRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	personalGoalRepo := postgres.NewPersonalGoalRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	noteRepo := postgres.NewNoteRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	linkRepo := postgres.NewLinkRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		taskRepo,
		noteRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)
	notifier := services.NewRedisNotifier(redisClient, zapLogger)

	authUseCase := authUC.New(profileRepo, sessionRepo, membershipRepo, invitationRepo, cfg.JWT.Secret, cfg.Session.TTL, zapLogger)
	teamUseCase := teamUC.New(teamRepo, membershipRepo, invitationRepo, profileRepo, notifier, zapLogger)
	goalUseCase := goalUC.New(goalRepo, categoryRepo, linkRepo, notifier, zapLogger)
	personalGoalUseCase := pgoalUC.New(personalGoalRepo, taskRepo, linkRepo, notifier, zapLogger)
	taskUseCase := taskUC.New(taskRepo, linkRepo, bufferBridge, notifier, zapLogger)
	noteUseCase := noteUC.New(noteRepo, bufferBridge, notifier, zapLogger)
	reportUseCase := reportUC.New(reportRepo, membershipRepo, notifier, zapLogger)
	dashboardUseCase := dashboardUC.New(goalRepo, categoryRepo, taskRepo, noteRepo, linkRepo, membershipRepo, profileRepo, zapLogger)
	materializer := recurrence.NewMaterializer(taskRepo, linkRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:         apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Team:         apiHandler.NewTeamHandler(teamUseCase, ctxAdapter, zapLogger),
		Goal:         apiHandler.NewGoalHandler(goalUseCase, ctxAdapter, zapLogger),
		PersonalGoal: apiHandler.NewPersonalGoalHandler(personalGoalUseCase, ctxAdapter, zapLogger),
		Task:         apiHandler.NewTaskHandler(taskUseCase, materializer, ctxAdapter, zapLogger),
		Note:         apiHandler.NewNoteHandler(noteUseCase, ctxAdapter, zapLogger),
		Report:       apiHandler.NewReportHandler(reportUseCase, ctxAdapter, zapLogger),
		Dashboard:    apiHandler.NewDashboardHandler(dashboardUseCase, ctxAdapter, zapLogger),
		Change:       apiHandler.NewChangeHandler(notifier, ctxAdapter, zapLogger),
		Health:       apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, authUseCase, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
