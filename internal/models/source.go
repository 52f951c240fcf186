package models

import "gorm.io/datatypes"

// Source is a catalog entry: a named point on the sky plus a free-form
// attribute payload. RA/Dec are kept as plain columns for serving; Location
// mirrors them as a PostGIS geography point so cone searches run in the
// database. Both are written together on create. The SRID in the column
// type must stay in step with geo.SRID.
type Source struct {
	BaseModel
	Name     string         `gorm:"index" json:"name"`
	RA       float64        `gorm:"column:ra;not null" json:"ra"`
	Dec      float64        `gorm:"column:dec;not null" json:"dec"`
	Location string         `gorm:"type:geography(POINT,4035);not null;index" json:"-"`
	Data     datatypes.JSON `json:"data,omitempty"`

	Comments []Comment `gorm:"foreignKey:SourceID" json:"comments,omitempty"`
}

// Comment belongs to exactly one Source.
type Comment struct {
	BaseModel
	Content  string `gorm:"not null" json:"content"`
	SourceID uint   `gorm:"not null;index" json:"source_id"`
}
