package main

import (
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/AkarshanGhosh/Rail-Web-Server/docs" // generated swagger docs
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/api"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/api/middleware"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/config"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/notify"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/repository"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/ws"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/database"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/utils"
)

// @title           Rail Web Server API
// @version         1.0
// @description     Train coach monitoring backend with chain-pull alerting

// @contact.name   API Support
// @contact.email  support@railwatch.example

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description JWT token in 'Bearer {token}' format

func main() {
	cfg := config.InitConfig()

	utils.InitJWTSecret(cfg.JWT.Secret)

	database.InitDB(cfg.Database.Path)

	mailer := notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)
	notifier := notify.NewNotifier(mailer, repository.NewUserRepository(database.GetDB()))

	hub := ws.NewHub()
	go hub.Run()

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware(), gin.Recovery())

	api.SetupRoutes(router, notifier, hub)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Println("Swagger docs at http://localhost:" + cfg.Port + "/swagger/index.html")

	log.Printf("Starting server on :%s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %s\n", err)
	}
}
