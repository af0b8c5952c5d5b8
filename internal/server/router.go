package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/school-connect-api/internal/handler"
	"github.com/noah-isme/school-connect-api/internal/middleware"
	"github.com/noah-isme/school-connect-api/internal/models"
	"github.com/noah-isme/school-connect-api/internal/service"
	"github.com/noah-isme/school-connect-api/pkg/logger"
	"github.com/noah-isme/school-connect-api/pkg/middleware/requestid"
)

// Options holds everything the router mounts.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	AuthPerMinute  int

	Logger   *zap.Logger
	Metrics  *service.MetricsService
	Resolver middleware.TokenResolver
	Audit    middleware.AuditWriter

	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Semesters   *handler.SemesterHandler
	Messages    *handler.MessageHandler
	Discussions *handler.DiscussionHandler
	Calendar    *handler.CalendarHandler
	Attachments *handler.AttachmentHandler
	Realtime    *handler.WSHandler
	Probes      *handler.MetricsHandler
}

// NewRouter builds the gin engine with the global middleware chain and every route.
func NewRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsMiddleware(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))

	r.GET("/health", opts.Probes.Health)
	r.GET("/ready", opts.Probes.Ready)
	r.GET("/metrics", opts.Probes.Prometheus)
	r.GET("/ws", opts.Realtime.Connect)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	authRequired := middleware.JWT(opts.Resolver)
	limiter := middleware.NewRateLimiter(opts.AuthPerMinute)

	auth := api.Group("/auth")
	{
		public := auth.Group("", limiter.Middleware())
		public.POST("/register", opts.Auth.Register)
		public.POST("/login", opts.Auth.Login)
		public.POST("/refresh", opts.Auth.Refresh)

		auth.POST("/logout", authRequired, opts.Auth.Logout)
		auth.GET("/me", authRequired, opts.Auth.Me)
		auth.POST("/change-password", authRequired, opts.Auth.ChangePassword)
	}

	api.GET("/attachments/download", opts.Attachments.Download)

	protected := api.Group("", authRequired)

	users := protected.Group("/users")
	users.PUT("/me", middleware.Audit(opts.Audit, opts.Logger, models.AuditActionProfileUpdate, "users"), opts.Users.UpdateMe)
	users.GET("/:id", opts.Users.Get)

	semesters := protected.Group("/semesters")
	semesters.GET("", opts.Semesters.List)
	semesters.POST("", middleware.RequireRoles(models.RoleTeacher), opts.Semesters.Create)
	semesters.GET("/current", opts.Semesters.Current)
	semesters.GET("/:id", opts.Semesters.Get)
	semesters.PUT("/:id", opts.Semesters.Update)
	semesters.POST("/:id/participants", opts.Semesters.AddParticipant)
	semesters.DELETE("/:id/participants/:userId", opts.Semesters.RemoveParticipant)
	semesters.POST("/:id/classes", opts.Semesters.AddClass)
	semesters.PUT("/:id/classes/:classId", opts.Semesters.UpdateClass)
	semesters.DELETE("/:id/classes/:classId", opts.Semesters.RemoveClass)

	messages := protected.Group("/messages")
	messages.POST("", opts.Messages.Send)
	messages.GET("/conversations", opts.Messages.Conversations)
	messages.GET("/conversations/:userId", opts.Messages.Thread)
	messages.PUT("/conversations/:userId/read", opts.Messages.MarkRead)
	messages.GET("/unread-count", opts.Messages.UnreadCount)
	messages.GET("/contacts", opts.Messages.Contacts)

	discussions := protected.Group("/discussions")
	discussions.GET("", opts.Discussions.List)
	discussions.POST("", opts.Discussions.Create)
	discussions.GET("/search", opts.Discussions.Search)
	discussions.GET("/:id", opts.Discussions.Get)
	discussions.PUT("/:id", opts.Discussions.Update)
	discussions.DELETE("/:id", opts.Discussions.Delete)
	discussions.POST("/:id/replies", opts.Discussions.AddReply)
	discussions.PUT("/:id/replies/:replyId", opts.Discussions.UpdateReply)
	discussions.DELETE("/:id/replies/:replyId", opts.Discussions.DeleteReply)
	discussions.PUT("/:id/pin", opts.Discussions.TogglePin)
	discussions.PUT("/:id/close", opts.Discussions.ToggleClose)

	events := protected.Group("/calendar/events")
	events.GET("", opts.Calendar.List)
	events.POST("", opts.Calendar.Create)
	events.GET("/export", opts.Calendar.Export)
	events.GET("/:id", opts.Calendar.Get)
	events.PUT("/:id", opts.Calendar.Update)
	events.DELETE("/:id", opts.Calendar.Delete)
	events.PATCH("/:id/toggle", opts.Calendar.Toggle)

	protected.POST("/attachments", opts.Attachments.Upload)

	return r
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", requestid.Header},
		ExposeHeaders:    []string{requestid.Header, "Content-Disposition"},
		AllowCredentials: len(allowedOrigins) > 0,
		MaxAge:           10 * time.Minute,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}
