package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/gtd_storefront/internal/utils"
)

func TestBuildProductWhere(t *testing.T) {
	featured := true
	tests := []struct {
		name      string
		filter    ProductFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{"empty", ProductFilter{}, "WHERE 1=1", []interface{}{}},
		{
			"collection and search",
			ProductFilter{Collection: "terrarios", Search: "vidrio"},
			"WHERE 1=1 AND c.slug = $1 AND p.title ILIKE $2",
			[]interface{}{"terrarios", "%vidrio%"},
		},
		{
			"all",
			ProductFilter{Collection: "geckos", Search: "leo", Featured: &featured},
			"WHERE 1=1 AND c.slug = $1 AND p.title ILIKE $2 AND p.featured = $3",
			[]interface{}{"geckos", "%leo%", true},
		},
		{
			"featured only",
			ProductFilter{Featured: &featured},
			"WHERE 1=1 AND p.featured = $1",
			[]interface{}{true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildProductWhere(&tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestProductFilterNormalize(t *testing.T) {
	f := ProductFilter{Page: -1, Limit: 500}
	f.normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.Limit)

	f = ProductFilter{}
	f.normalize()
	assert.Equal(t, 24, f.Limit)
}

func TestMapWriteError(t *testing.T) {
	assert.NoError(t, mapWriteError(nil))
	assert.ErrorIs(t, mapWriteError(&pq.Error{Code: "23505"}), utils.ErrSlugTaken)
	assert.ErrorIs(t, mapWriteError(&pq.Error{Code: "23503", Constraint: "products_collection_id_fkey"}), utils.ErrCollectionNotFound)

	raw := &pq.Error{Code: "23502"}
	assert.Equal(t, error(raw), mapWriteError(raw))

	other := errors.New("boom")
	assert.Equal(t, other, mapWriteError(other))
}
