package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fingel/fastastro/internal/handlers"
)

// RegisterRoutes wires every HTTP endpoint onto the engine.
func RegisterRoutes(ginRouter *gin.Engine, authHandler *handlers.AuthHandler, sourceHandler *handlers.SourceHandler) {
	root := ginRouter.Group("")
	{
		authHandler.RegisterRoutes(root)
		sourceHandler.RegisterRoutes(root)
	}

	ginRouter.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
