package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"research-chat/cmd/api/auth"
	"research-chat/cmd/api/handlers"
	"research-chat/cmd/api/middleware"
	"research-chat/cmd/api/services"
	_ "research-chat/docs"
)

type Deps struct {
	Chat      *services.ChatService
	Templates *services.TemplateService
	// JWT 가 nil 이면 X-User-Id 헤더로 사용자를 식별한다.
	JWT     *auth.JWTManager
	Storage handlers.Pinger
}

func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace())

	r.GET("/health", handlers.HealthHandler(deps.Storage))

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1", middleware.RequireUser(deps.JWT))
	{
		chat := api.Group("/chat")
		chat.GET("/state", handlers.ChatStateHandler(deps.Chat))
		chat.GET("/stream", handlers.ChatStreamHandler(deps.Chat))
		chat.POST("/messages", handlers.SubmitMessageHandler(deps.Chat))
		chat.POST("/select", handlers.SelectSessionHandler(deps.Chat))
		chat.POST("/sample-case", handlers.SampleCaseHandler(deps.Chat))

		api.GET("/sessions", handlers.ListSessionsHandler(deps.Chat))
		api.POST("/sessions", handlers.CreateSessionHandler(deps.Chat))
		api.PATCH("/sessions/:id", handlers.RenameSessionHandler(deps.Chat))
		api.DELETE("/sessions/:id", handlers.DeleteSessionHandler(deps.Chat))

		api.GET("/templates", handlers.ListTemplatesHandler(deps.Templates))
		api.POST("/templates", handlers.CreateTemplateHandler(deps.Templates))
		api.PUT("/templates/:id", handlers.UpdateTemplateHandler(deps.Templates))
		api.DELETE("/templates/:id", handlers.DeleteTemplateHandler(deps.Templates))
	}

	return r
}
