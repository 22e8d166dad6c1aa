package sse

import (
	"time"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

// CatalogNotifier is the interface services use to emit catalog events.
type CatalogNotifier interface {
	NotifyProductUpdated(p *models.Product)
	NotifyProductDeleted(p *models.Product)
}

// HubNotifier implements CatalogNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyProductUpdated(p *models.Product) {
	if n.hub.ClientCount() == 0 {
		return
	}
	ev := productToEvent(EventProductUpdated, p)
	available := p.Available
	ev.Available = &available
	n.hub.Broadcast(ev)
}

func (n *HubNotifier) NotifyProductDeleted(p *models.Product) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(productToEvent(EventProductDeleted, p))
}

func productToEvent(eventType EventType, p *models.Product) *CatalogEvent {
	return &CatalogEvent{
		Event:     eventType,
		ProductID: p.ID,
		Slug:      p.Slug,
		Timestamp: time.Now().UTC(),
	}
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyProductUpdated(p *models.Product) {}
func (n *NopNotifier) NotifyProductDeleted(p *models.Product) {}
