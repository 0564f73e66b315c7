package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/taskhub/taskhub/internal/config"
	"github.com/taskhub/taskhub/internal/constants"
	"github.com/taskhub/taskhub/internal/database"
	"github.com/taskhub/taskhub/internal/handlers"
	"github.com/taskhub/taskhub/internal/mailer"
	"github.com/taskhub/taskhub/internal/middleware"
	"github.com/taskhub/taskhub/internal/repository"
	"github.com/taskhub/taskhub/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with a signed cookie store
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Outbound email is optional; without it password-reset mail is logged
	// and reminder delivery is disabled.
	var mail mailer.Mailer
	if cfg.MailConfigured() {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	} else {
		log.Println("SMTP not configured; outbound email disabled")
	}

	// The assistant degrades to 503 without an API key.
	var chatService *services.ChatService
	if cfg.GroqAPIKey != "" {
		chatService = services.NewChatService(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.ChatModel)
	} else {
		log.Println("GROQ_API_KEY not set; assistant disabled")
	}

	// Initialize repositories and services
	db := database.GetDB()
	accountRepo := repository.NewAccountRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	authService := services.NewAuthService(accountRepo, mail, cfg.AppBaseURL)
	taskService := services.NewTaskService(taskRepo)
	noteService := services.NewNoteService(noteRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	noteHandler := handlers.NewNoteHandler(noteService)
	chatHandler := handlers.NewChatHandler(chatService, taskService, noteService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TaskHub API is running",
		})
	})

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/logout", authHandler.Logout)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password/:token", authHandler.ResetPassword)
		auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentAccount)
	}

	// Dashboard (protected)
	r.GET("/dashboard", middleware.RequireAuth(), taskHandler.Dashboard)

	// Task routes (protected)
	tasks := r.Group("/tasks")
	tasks.Use(middleware.RequireAuth())
	{
		tasks.POST("/add", taskHandler.AddTask)
		tasks.POST("/:id/update", taskHandler.UpdateTask)
		tasks.POST("/:id/delete", taskHandler.DeleteTask)
		tasks.PUT("/api/:id/complete", taskHandler.CompleteTaskAPI)
		tasks.DELETE("/api/:id", taskHandler.DeleteTaskAPI)
	}

	// Note routes (protected)
	notes := r.Group("/notes")
	notes.Use(middleware.RequireAuth())
	{
		notes.GET("", noteHandler.ListNotes)
		notes.POST("", noteHandler.CreateNote)
		notes.POST("/:id/delete", noteHandler.DeleteNote)
	}

	// Assistant (protected)
	r.POST("/api/chat", middleware.RequireAuth(), chatHandler.Chat)

	// Reminder sweep runs only when mail can actually be delivered.
	if mail != nil {
		reminderService := services.NewReminderService(taskRepo, mail)
		scheduler := services.NewSchedulerService(time.Local)
		if _, err := scheduler.ScheduleInterval(cfg.ReminderInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if sent, err := reminderService.Sweep(jobCtx); err != nil {
				log.Printf("reminder sweep: %v", err)
			} else if sent > 0 {
				log.Printf("reminder sweep: sent %d reminder(s)", sent)
			}
		}); err != nil {
			log.Fatalf("Failed to schedule reminder sweep: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		log.Println("Reminder sweep disabled: SMTP not configured")
	}

	// Start server
	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := r.Run(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown complete.")
}
