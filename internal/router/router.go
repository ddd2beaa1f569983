package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/docuassist/backend/config"
	"github.com/docuassist/backend/internal/handler"
)

func Setup(
	cfg *config.Config,
	templateHandler *handler.TemplateHandler,
	docHandler *handler.DocumentHandler,
	chatHandler *handler.ChatHandler,
	settingsHandler *handler.SettingsHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		templates := api.Group("/templates")
		{
			templates.GET("", templateHandler.List)
			templates.GET("/match", templateHandler.Match)
			templates.GET("/:id", templateHandler.Get)
			templates.GET("/:id/fields", templateHandler.Fields)
			templates.POST("", templateHandler.Create)
			templates.PUT("/:id", templateHandler.Update)
			templates.DELETE("/:id", templateHandler.Delete)
		}

		documents := api.Group("/documents")
		{
			documents.GET("", docHandler.List)
			documents.GET("/:id", docHandler.Get)
			documents.POST("", docHandler.Create)
			documents.PUT("/:id", docHandler.Update)
			documents.DELETE("/:id", docHandler.Delete)
		}

		chat := api.Group("/chat")
		{
			chat.POST("/message", chatHandler.SendMessage)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", settingsHandler.Get)
			settings.PUT("", settingsHandler.Update)
			settings.GET("/tool-capable-models", settingsHandler.ToolCapableModels)
			settings.POST("/test-connection", settingsHandler.TestConnection)
		}
	}

	return r
}
