package models

import "time"

// Collection groups products for browsing (e.g. "Terrarios").
type Collection struct {
	ID          string    `db:"id" json:"id" yaml:"id" validate:"required"`
	Slug        string    `db:"slug" json:"slug" yaml:"slug" validate:"required,slug"`
	Name        string    `db:"name" json:"name" yaml:"name" validate:"required"`
	Description string    `db:"description" json:"description,omitempty" yaml:"description,omitempty"`
	Image       string    `db:"image" json:"image,omitempty" yaml:"image,omitempty"`
	Featured    bool      `db:"featured" json:"featured" yaml:"featured"`
	CreatedAt   time.Time `db:"created_at" json:"-" yaml:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt" yaml:"-"`
}
