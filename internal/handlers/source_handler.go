package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Fingel/fastastro/internal/auth"
	"github.com/Fingel/fastastro/internal/middleware"
	"github.com/Fingel/fastastro/internal/services"
	"github.com/Fingel/fastastro/internal/services/dto"
	"github.com/Fingel/fastastro/pkg/apperrors"
)

type SourceHandler struct {
	*BaseHandler
	sourceService *services.SourceService
	tokens        *auth.TokenService
}

func NewSourceHandler(base *BaseHandler, sourceService *services.SourceService, tokens *auth.TokenService) *SourceHandler {
	return &SourceHandler{
		BaseHandler:   base,
		sourceService: sourceService,
		tokens:        tokens,
	}
}

// RegisterRoutes wires the catalog endpoints. Reads are public, writes
// require a session token.
func (h *SourceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sources := rg.Group("/sources")
	{
		sources.GET("", h.List)
		sources.GET("/:id", h.Get)
	}

	writes := rg.Group("/sources")
	writes.Use(middleware.AuthMiddleware(h.tokens))
	{
		writes.POST("", h.Create)
		writes.POST("/:id/comment", h.AddComment)
	}
}

func (h *SourceHandler) List(c *gin.Context) {
	var query dto.SourceListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	sources, err := h.sourceService.List(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sources)
}

func (h *SourceHandler) Create(c *gin.Context) {
	if _, ok := h.CurrentUserEmail(c); !ok {
		return
	}

	var req dto.CreateSourceRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	source, err := h.sourceService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, source)
}

func (h *SourceHandler) Get(c *gin.Context) {
	id, ok := h.sourceID(c)
	if !ok {
		return
	}

	source, err := h.sourceService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, source)
}

func (h *SourceHandler) AddComment(c *gin.Context) {
	if _, ok := h.CurrentUserEmail(c); !ok {
		return
	}

	id, ok := h.sourceID(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	comment, err := h.sourceService.AddComment(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *SourceHandler) sourceID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.HandleError(c, apperrors.ValidationError("id must be an integer"))
		return 0, false
	}
	return uint(id), true
}
