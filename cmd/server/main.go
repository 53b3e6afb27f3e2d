package main

import (
	"BlogKeeper/internal/blobstore"
	"BlogKeeper/internal/config"
	"BlogKeeper/internal/email"
	"BlogKeeper/internal/handlers"
	"BlogKeeper/internal/middleware"
	"BlogKeeper/internal/repo"
	"BlogKeeper/internal/service"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	// единственный общий ресурс процесса: подключение к БД, создаётся один
	// раз и дальше внедряется в репозитории и bucket
	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	bucket := blobstore.NewGormBucket(gormDB, cfg.BlobChunkSizeKB*1024)

	var sender email.Sender
	if cfg.SMTPAddr != "" {
		sender = email.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	} else {
		sugar.Infow("SMTP_ADDR is not set, emails go to the log")
		sender = email.NewLogSender(sugar)
	}

	userRepo := repo.NewUserRepository(gormDB)
	postRepo := repo.NewPostRepository(gormDB)

	userService := service.NewUserService(userRepo, sender, sugar, cfg.PublicURL)
	postService := service.NewPostService(postRepo, bucket, sugar, cfg.ImageMaxSizeMB)

	h := handlers.NewHandler(userService, postService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"ImageMaxSizeMB", cfg.ImageMaxSizeMB,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
