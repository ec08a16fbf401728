package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"reviewhub/database"
	"reviewhub/internal/api/handler"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/permission"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"
	"reviewhub/internal/config"
	"reviewhub/internal/mail"
)

func main() {
	log := logrus.New()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	configureLogger(log, cfg)

	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	mailer := mail.NewSMTPMailer(cfg, log)
	if !mailer.IsConfigured() {
		log.Warn("SMTP is not configured; confirmation codes will only appear in the logs")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, mailer, cfg, log)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, genreRepo, categoryRepo, reviewRepo)
	reviewService := service.NewReviewService(reviewRepo, titleRepo)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	throttle := middleware.NewScopedThrottle(rdb, cfg.ThrottleRate, cfg.ThrottleWindow, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	v1 := r.Group("/v1")
	v1.Use(middleware.Authenticate(authService, userRepo))

	handler.NewAuthHandler(authService).RegisterRoutes(v1.Group("/auth"))

	burst := throttle.Limit(middleware.ScopeBurstNonEmployee)

	usersGrp := v1.Group("/users", burst)
	handler.NewUserHandler(userService).RegisterRoutes(usersGrp)

	categoriesGrp := v1.Group("/categories", burst)
	handler.NewCategoryHandler(categoryService).RegisterRoutes(categoriesGrp)

	genresGrp := v1.Group("/genres", burst)
	handler.NewGenreHandler(genreService).RegisterRoutes(genresGrp)

	titlesGrp := v1.Group("/titles", burst)
	handler.NewTitleHandler(titleService).RegisterRoutes(titlesGrp)

	reviewsGrp := titlesGrp.Group("/:title_id/reviews",
		middleware.Require(permission.IsStaffOrAuthorOrReadOnly{}, permission.HasUsernameForPOST{}))
	handler.NewReviewHandler(reviewService).RegisterRoutes(reviewsGrp)

	commentsGrp := reviewsGrp.Group("/:review_id/comments")
	handler.NewCommentHandler(commentService).RegisterRoutes(commentsGrp)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Infof("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func configureLogger(log *logrus.Logger, cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
}
