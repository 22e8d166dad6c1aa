package sse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

func TestHub_RegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	c := hub.Register("a")
	assert.Equal(t, 1, hub.ClientCount())

	hub.Broadcast(&CatalogEvent{Event: EventProductDeleted, ProductID: "p1", Slug: "gecko"})

	msg := <-c.Events
	assert.Equal(t, EventProductDeleted, msg.Event)
	var ev CatalogEvent
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	assert.Equal(t, "p1", ev.ProductID)
	assert.Equal(t, "gecko", ev.Slug)

	hub.Unregister("a")
	assert.Zero(t, hub.ClientCount())
	_, open := <-c.Events
	assert.False(t, open)

	// Unknown ids are ignored.
	hub.Unregister("a")
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	c := hub.Register("slow")
	for i := 0; i < cap(c.Events)+10; i++ {
		hub.Broadcast(&CatalogEvent{Event: EventProductUpdated})
	}
	assert.Len(t, c.Events, cap(c.Events))
}

func TestHubNotifier(t *testing.T) {
	hub := NewHub()
	n := NewHubNotifier(hub)
	p := &models.Product{ID: "p1", Slug: "lampara-uvb", Available: true}

	// No clients: nothing to deliver, must not block.
	n.NotifyProductUpdated(p)

	c := hub.Register("a")
	n.NotifyProductUpdated(p)
	msg := <-c.Events
	assert.Equal(t, EventProductUpdated, msg.Event)

	var ev CatalogEvent
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	require.NotNil(t, ev.Available)
	assert.True(t, *ev.Available)

	n.NotifyProductDeleted(p)
	msg = <-c.Events
	assert.Equal(t, EventProductDeleted, msg.Event)
}
