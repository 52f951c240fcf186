package services

import (
	"context"
	"errors"

	"github.com/Fingel/fastastro/internal/geo"
	"github.com/Fingel/fastastro/internal/logger"
	"github.com/Fingel/fastastro/internal/models"
	"github.com/Fingel/fastastro/internal/repositories"
	"github.com/Fingel/fastastro/internal/services/dto"
	"github.com/Fingel/fastastro/pkg/apperrors"
)

// SourceService manages the astronomical source catalog.
type SourceService struct {
	sources repositories.SourceRepository
}

func NewSourceService(sources repositories.SourceRepository) *SourceService {
	return &SourceService{sources: sources}
}

// List returns sources matching the query filters. The cone filter
// only applies when all three cone parameters are present.
func (s *SourceService) List(ctx context.Context, query *dto.SourceListQuery) ([]*dto.SourceResponse, error) {
	filter := repositories.SourceFilter{
		ConeRA:     query.ConeRA,
		ConeDec:    query.ConeDec,
		ConeRadius: query.ConeRadius,
	}
	if query.NameContains != nil {
		filter.NameContains = *query.NameContains
	}
	page := repositories.Page{
		Skip:    query.Skip,
		Limit:   query.Limit,
		OrderBy: query.OrderBy,
	}

	sources, err := s.sources.Find(filter, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewSourceListResponse(sources), nil
}

// Create registers a new source, storing the position both as plain
// coordinates and as a geography point for distance queries.
func (s *SourceService) Create(ctx context.Context, req *dto.CreateSourceRequest) (*dto.SourceResponse, error) {
	source := &models.Source{
		Name:     req.Name,
		RA:       req.RA,
		Dec:      req.Dec,
		Location: geo.WKTPoint(req.RA, req.Dec, geo.SRID),
		Data:     req.Data,
	}
	if err := s.sources.Create(source); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "source created", "id", source.ID, "name", source.Name)
	return dto.NewSourceResponse(source), nil
}

// Get returns a single source with its comments.
func (s *SourceService) Get(ctx context.Context, id uint) (*dto.SourceResponse, error) {
	source, err := s.sources.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrSourceNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewSourceResponse(source), nil
}

// AddComment attaches a comment to an existing source.
func (s *SourceService) AddComment(ctx context.Context, sourceID uint, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	comment := &models.Comment{
		Content:  req.Content,
		SourceID: sourceID,
	}
	if err := s.sources.CreateComment(comment); err != nil {
		if errors.Is(err, repositories.ErrSourceNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "comment created", "source_id", sourceID)
	resp := dto.NewCommentResponse(comment)
	return &resp, nil
}
