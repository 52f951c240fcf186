package repositories

import (
	"errors"

	"github.com/Fingel/fastastro/internal/geo"
	"github.com/Fingel/fastastro/internal/models"

	"gorm.io/gorm"
)

var ErrSourceNotFound = errors.New("source not found")

// SourceFilter narrows a catalog listing. Cone applies only when RA, Dec and
// Radius are all present.
type SourceFilter struct {
	NameContains string
	ConeRA       *float64
	ConeDec      *float64
	ConeRadius   *float64 // degrees
}

// Cone reports whether all three cone parameters were supplied.
func (f SourceFilter) Cone() bool {
	return f.ConeRA != nil && f.ConeDec != nil && f.ConeRadius != nil
}

// Page holds the list pagination and ordering parameters.
type Page struct {
	Skip    int
	Limit   int
	OrderBy string
}

// Columns accepted in order_by. Anything else falls back to id.
var sourceOrderColumns = map[string]bool{
	"id":         true,
	"name":       true,
	"ra":         true,
	"dec":        true,
	"created_at": true,
}

type SourceRepository interface {
	Find(filter SourceFilter, page Page) ([]models.Source, error)
	FindByID(id uint) (*models.Source, error)
	Create(source *models.Source) error
	CreateComment(comment *models.Comment) error
}

type SourceRepositoryImpl struct {
	db *gorm.DB
}

func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &SourceRepositoryImpl{db: db}
}

func (r *SourceRepositoryImpl) Find(filter SourceFilter, page Page) ([]models.Source, error) {
	query := r.db.Model(&models.Source{})

	if filter.NameContains != "" {
		query = query.Where("name ILIKE ?", "%"+filter.NameContains+"%")
	}
	if filter.Cone() {
		// Radius arrives in degrees; the geography predicate wants meters.
		point := geo.WKTPoint(*filter.ConeRA, *filter.ConeDec, geo.SRID)
		meters := geo.DegreesToMeters(*filter.ConeRadius)
		query = query.Where("ST_DWithin(location, ST_GeographyFromText(?), ?)", point, meters)
	}

	orderBy := page.OrderBy
	if !sourceOrderColumns[orderBy] {
		orderBy = "id"
	}

	limit := page.Limit
	if limit <= 0 {
		limit = 100
	}

	var sources []models.Source
	err := query.Order(orderBy).Offset(page.Skip).Limit(limit).Find(&sources).Error
	return sources, err
}

func (r *SourceRepositoryImpl) FindByID(id uint) (*models.Source, error) {
	var source models.Source
	err := r.db.Preload("Comments").First(&source, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSourceNotFound
		}
		return nil, err
	}
	return &source, nil
}

func (r *SourceRepositoryImpl) Create(source *models.Source) error {
	return r.db.Create(source).Error
}

func (r *SourceRepositoryImpl) CreateComment(comment *models.Comment) error {
	var source models.Source
	if err := r.db.Select("id").First(&source, "id = ?", comment.SourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSourceNotFound
		}
		return err
	}
	return r.db.Create(comment).Error
}
