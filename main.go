package main

import (
	"html/template"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cineblog/auth"
	"cineblog/common"
	"cineblog/database"
	"cineblog/posts"
	"cineblog/views"
)

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db, err := common.ConnectDb(cfg.DbURI)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	if err := setupRouter(router, cfg, db); err != nil {
		log.Fatal("Failed to set up routes: ", err)
	}

	log.Printf("Starting server on port %s (mode: %s)...", cfg.Port, cfg.GinMode)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func setupRouter(router *gin.Engine, cfg *common.Config, db *gorm.DB) error {
	router.Use(common.RequestIDMiddleware())

	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowCredentials = true
		corsConfig.ExposeHeaders = []string{common.RequestIDHeader}
		router.Use(cors.New(corsConfig))
	}

	store := cookie.NewStore([]byte(cfg.SecretKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * cfg.SessionMaxAgeDays,
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, store))

	credentials := auth.NewCredentialStore(db)
	router.Use(credentials.LoadUser())

	if err := views.Load(router, template.FuncMap{"isAdmin": auth.IsAdmin}); err != nil {
		return err
	}

	auth.NewAuthModule(credentials).RegisterRoutes(router)
	posts.NewPostsModule(posts.NewRepository(db)).RegisterRoutes(router)

	return nil
}
