package session

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, hub *Hub, store *Store) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", WSHandler(hub, store))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestWSHandler_WelcomeThenOrderedUpdates(t *testing.T) {
	hub := NewHub()
	store := NewStore(&fakeLooker{res: foundResult()}, hub)
	conn := dialWS(t, hub, store)

	welcome := readEvent(t, conn)
	assert.Equal(t, "session.welcome", welcome.Type)
	assert.Equal(t, PhaseIdle, welcome.State.Phase)

	store.Lookup(context.Background(), 6594)

	loading := readEvent(t, conn)
	assert.Equal(t, "session.update", loading.Type)
	assert.Equal(t, PhaseLoading, loading.State.Phase)
	assert.Equal(t, 6594, loading.State.MediaID)

	ready := readEvent(t, conn)
	assert.Equal(t, "session.update", ready.Type)
	assert.Equal(t, PhaseReady, ready.State.Phase)
	assert.True(t, ready.State.Found)
	assert.Equal(t, "Katanagatari", ready.State.Series)
}

func TestWSHandler_ConfirmationEvents(t *testing.T) {
	hub := NewHub()
	store := NewStore(&fakeLooker{}, hub)
	conn := dialWS(t, hub, store)
	readEvent(t, conn) // welcome

	conf, err := store.RequestLink("https://example.com/thread")
	require.NoError(t, err)

	staged := readEvent(t, conn)
	assert.Equal(t, "session.confirmation", staged.Type)
	require.NotNil(t, staged.State.Confirmation)
	assert.Equal(t, conf.ID, staged.State.Confirmation.ID)

	_, err = store.ConfirmLink(conf.ID)
	require.NoError(t, err)

	resolved := readEvent(t, conn)
	assert.Equal(t, "session.confirmation", resolved.Type)
	assert.Nil(t, resolved.State.Confirmation)
}
