package provider

import (
	"testing"

	"github.com/dmitrijs2005/mynote/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListeners_AddNotifyRemove(t *testing.T) {
	var l Listeners

	var got []string
	h1 := l.Add(func(id *models.Identity) { got = append(got, "first:"+uidOf(id)) })
	h2 := l.Add(func(id *models.Identity) { got = append(got, "second:"+uidOf(id)) })
	require.NotEqual(t, h1, h2)
	assert.Equal(t, 2, l.Len())

	l.Notify(&models.Identity{UID: "u1"})
	assert.Equal(t, []string{"first:u1", "second:u1"}, got)

	assert.True(t, l.Remove(h1))
	assert.False(t, l.Remove(h1), "second remove is a no-op")

	got = nil
	l.Notify(nil)
	assert.Equal(t, []string{"second:<nil>"}, got)
}

func TestListeners_NotifyPassesCopies(t *testing.T) {
	var l Listeners
	l.Add(func(id *models.Identity) { id.EmailVerified = true })

	id := &models.Identity{UID: "u1"}
	l.Notify(id)
	assert.False(t, id.EmailVerified)
}

func TestListeners_ListenerMayRemoveItself(t *testing.T) {
	var l Listeners
	var h ListenerHandle
	calls := 0
	h = l.Add(func(*models.Identity) {
		calls++
		l.Remove(h)
	})

	l.Notify(nil)
	l.Notify(nil)
	assert.Equal(t, 1, calls)
	assert.Zero(t, l.Len())
}

func uidOf(id *models.Identity) string {
	if id == nil {
		return "<nil>"
	}
	return id.UID
}
