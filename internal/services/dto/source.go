package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/Fingel/fastastro/internal/geo"
	"github.com/Fingel/fastastro/internal/models"
)

// CreateSourceRequest registers a new catalog source.
type CreateSourceRequest struct {
	Name string         `json:"name" binding:"required"`
	RA   float64        `json:"ra" binding:"gte=-360,lte=360"`
	Dec  float64        `json:"dec" binding:"gte=-90,lte=90"`
	Data datatypes.JSON `json:"data"`
}

// SourceListQuery filters the source listing. Cone parameters are only
// applied when all three are present.
type SourceListQuery struct {
	NameContains *string  `form:"name_contains"`
	ConeRA       *float64 `form:"cone_ra" validate:"omitempty,gte=-360,lte=360"`
	ConeDec      *float64 `form:"cone_dec" validate:"omitempty,gte=-90,lte=90"`
	ConeRadius   *float64 `form:"cone_radius" validate:"omitempty,gt=0"`
	Skip         int      `form:"skip" validate:"omitempty,gte=0"`
	Limit        int      `form:"limit" validate:"omitempty,gte=1,lte=1000"`
	OrderBy      string   `form:"order_by"`
}

// CommentRequest attaches a comment to a source.
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentResponse struct {
	ID      uint      `json:"id"`
	Content string    `json:"content"`
	Created time.Time `json:"created"`
}

// SourceResponse is the public view of a source. RA is normalized into
// [0, 360) regardless of how the source was submitted.
type SourceResponse struct {
	ID       uint              `json:"id"`
	Name     string            `json:"name"`
	RA       float64           `json:"ra"`
	Dec      float64           `json:"dec"`
	Data     datatypes.JSON    `json:"data"`
	Comments []CommentResponse `json:"comments"`
	Created  time.Time         `json:"created"`
}

func NewCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Content: c.Content,
		Created: c.CreatedAt,
	}
}

func NewSourceResponse(s *models.Source) *SourceResponse {
	comments := make([]CommentResponse, 0, len(s.Comments))
	for i := range s.Comments {
		comments = append(comments, NewCommentResponse(&s.Comments[i]))
	}
	return &SourceResponse{
		ID:       s.ID,
		Name:     s.Name,
		RA:       geo.NormalizeRA(s.RA),
		Dec:      s.Dec,
		Data:     s.Data,
		Comments: comments,
		Created:  s.CreatedAt,
	}
}

func NewSourceListResponse(sources []models.Source) []*SourceResponse {
	out := make([]*SourceResponse, 0, len(sources))
	for i := range sources {
		out = append(out, NewSourceResponse(&sources[i]))
	}
	return out
}
