package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"site-diary/internal/config"
	"site-diary/internal/handler"
	"site-diary/internal/logger"
	"site-diary/internal/middleware"
	"site-diary/internal/model"
	"site-diary/internal/service"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Construction{}, &model.Diary{}); err != nil {
		slog.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	authSvc := service.NewAuthService(db)
	constructionSvc := service.NewConstructionService(db)
	diarySvc := service.NewDiaryService(db)

	secret := []byte(cfg.Auth.JWTSecret)
	authH := handler.NewAuthHandler(authSvc, secret, cfg.Auth.TokenTTLDays)
	constructionH := handler.NewConstructionHandler(constructionSvc)
	diaryH := handler.NewDiaryHandler(diarySvc, cfg.Files.UploadDir)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.POST("/api/register", authH.Register)
	r.POST("/api/login", authH.Login)

	api := r.Group("/api", middleware.JWTAuth(secret))
	api.POST("/constructions", constructionH.Create)
	api.GET("/constructions", constructionH.List)
	api.GET("/constructions/:id", constructionH.Get)
	api.PUT("/constructions/:id", constructionH.Update)
	api.DELETE("/constructions/:id", constructionH.Delete)
	api.POST("/constructions/:id/diary", diaryH.Create)

	api.GET("/diaries/:id", diaryH.Get)
	api.POST("/diaries/:id/contributors", diaryH.AddContributor)
	api.PUT("/diaries/:id/date-range", diaryH.ModifyDateRange)
	api.POST("/diaries/:id/records/text", diaryH.AddTextRecord)
	api.POST("/diaries/:id/records/picture", diaryH.AddPictureRecord)
	api.GET("/diaries/:id/days/:date", diaryH.GetDay)
	api.GET("/diaries/:id/span", diaryH.GetSpan)
	api.GET("/files/:name", diaryH.DownloadFile)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
