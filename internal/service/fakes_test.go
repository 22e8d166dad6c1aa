package service

import (
	"context"
	"sort"
	"strings"

	"github.com/GTDGit/gtd_storefront/internal/cache"
	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

func int64Ptr(v int64) *int64 { return &v }

// terrarium is a configurable product: Color x Size with one missing combo.
func terrarium() *models.Product {
	return &models.Product{
		ID:          "prod-terrario",
		Slug:        "terrario-vidrio",
		Title:       "Terrario de vidrio",
		Description: "<p>Terrario <b>frontal</b> &amp; ventilado</p>",
		Images:      models.StringList{"https://cdn.example/terrario.jpg"},
		Featured:    true,
		Options: models.OptionList{
			{Name: "Color", Values: []string{"Negro", "Blanco"}, Swatches: map[string]string{"Negro": "#000000", "Blanco": "#ffffff"}},
			{Name: "Size", Values: []string{"S", "M"}},
		},
		Variants: models.VariantList{
			{ID: "v-negro-s", OptionValues: map[string]string{"Color": "Negro", "Size": "S"}, Price: 150000, CompareAtPrice: int64Ptr(200000), Image: "https://cdn.example/negro-s.jpg", Available: true},
			{ID: "v-negro-m", OptionValues: map[string]string{"Color": "Negro", "Size": "M"}, Price: 180000, Available: false},
			{ID: "v-blanco-s", OptionValues: map[string]string{"Color": "Blanco", "Size": "S"}, Price: 150000, Available: true},
		},
		Price:     150000,
		Available: true,
	}
}

// substrate has no options.
func substrate() *models.Product {
	return &models.Product{
		ID:        "prod-sustrato",
		Slug:      "sustrato-coco",
		Title:     "Sustrato de coco",
		Price:     25000,
		Available: true,
	}
}

type fakeProductRepo struct {
	products  map[string]*models.Product // by id
	reads     int
	createErr error
}

func newFakeProductRepo(ps ...*models.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*models.Product{}}
	for _, p := range ps {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetBySlug(slug string) (*models.Product, error) {
	r.reads++
	for _, p := range r.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, utils.ErrProductNotFound
}

func (r *fakeProductRepo) GetByID(id string) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, utils.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(filter repository.ProductFilter) (*repository.ProductListResult, error) {
	var out []models.Product
	for _, p := range r.products {
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return &repository.ProductListResult{Products: out, TotalItems: len(out), Page: 1, Limit: 24}, nil
}

func (r *fakeProductRepo) Create(p *models.Product) error {
	if r.createErr != nil {
		return r.createErr
	}
	if p.ID == "" {
		p.ID = "generated-" + p.Slug
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(p *models.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return utils.ErrProductNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(id string) error {
	if _, ok := r.products[id]; !ok {
		return utils.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

type fakeSnapshotCache struct {
	items       map[string]*models.Product
	invalidated []string
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{items: map[string]*models.Product{}}
}

func (c *fakeSnapshotCache) Get(_ context.Context, slug string) (*models.Product, error) {
	p, ok := c.items[slug]
	if !ok {
		return nil, cache.ErrMiss
	}
	return p, nil
}

func (c *fakeSnapshotCache) Set(_ context.Context, p *models.Product) error {
	c.items[p.Slug] = p
	return nil
}

func (c *fakeSnapshotCache) Invalidate(_ context.Context, slugs ...string) error {
	for _, s := range slugs {
		delete(c.items, s)
	}
	c.invalidated = append(c.invalidated, slugs...)
	return nil
}

type fakeCartBackend struct {
	lines map[string]map[string]int
}

func newFakeCartBackend() *fakeCartBackend {
	return &fakeCartBackend{lines: map[string]map[string]int{}}
}

func (f *fakeCartBackend) AddItem(_ context.Context, cartID, variantID string, qty int) (int, error) {
	if f.lines[cartID] == nil {
		f.lines[cartID] = map[string]int{}
	}
	f.lines[cartID][variantID] += qty
	return f.lines[cartID][variantID], nil
}

func (f *fakeCartBackend) Items(_ context.Context, cartID string) ([]cache.CartItem, error) {
	items := []cache.CartItem{}
	for id, q := range f.lines[cartID] {
		items = append(items, cache.CartItem{VariantID: id, Quantity: q})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].VariantID < items[j].VariantID })
	return items, nil
}

func (f *fakeCartBackend) TotalItems(_ context.Context, cartID string) (int, error) {
	total := 0
	for _, q := range f.lines[cartID] {
		total += q
	}
	return total, nil
}

type recordingNotifier struct {
	updated []string
	deleted []string
}

func (n *recordingNotifier) NotifyProductUpdated(p *models.Product) {
	n.updated = append(n.updated, p.ID)
}
func (n *recordingNotifier) NotifyProductDeleted(p *models.Product) {
	n.deleted = append(n.deleted, p.ID)
}

type fakeCollectionRepo struct {
	upserted []models.Collection
}

func (r *fakeCollectionRepo) List() ([]models.Collection, error) { return r.upserted, nil }

func (r *fakeCollectionRepo) GetByID(id string) (*models.Collection, error) {
	for i := range r.upserted {
		if r.upserted[i].ID == id {
			return &r.upserted[i], nil
		}
	}
	return nil, utils.ErrCollectionNotFound
}

func (r *fakeCollectionRepo) Upsert(c *models.Collection) error {
	r.upserted = append(r.upserted, *c)
	return nil
}
