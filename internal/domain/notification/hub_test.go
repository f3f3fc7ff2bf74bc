package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/pkg/jwt"
)

func startHub(t *testing.T) (*Hub, *jwt.Service, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	tokens := jwt.New("hub-secret", time.Hour)

	r := gin.New()
	NewWSHandler(hub, tokens).RegisterRoutes(r.Group("/api/v1"))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, tokens, "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/bookings"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var m Message
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestHub_BroadcastsToStaff(t *testing.T) {
	hub, tokens, url := startHub(t)
	token, err := tokens.GenerateToken(9, jwt.RoleStaff)
	require.NoError(t, err)

	conn := dial(t, url+"?token="+token)
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), sampleMessage()))
	got := readMessage(t, conn)
	assert.Equal(t, "EF250520001", got.BookingCode)
	assert.Equal(t, "created", got.Kind)
}

func TestHub_LocationFilter(t *testing.T) {
	hub, tokens, url := startHub(t)
	token, err := tokens.GenerateToken(9, jwt.RoleAdmin)
	require.NoError(t, err)

	conn := dial(t, url+"?token="+token+"&location_id=3")
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	other := sampleMessage()
	require.NoError(t, hub.Publish(context.Background(), other))

	mine := sampleMessage()
	mine.LocationID = 3
	mine.BookingCode = "EF250520002"
	require.NoError(t, hub.Publish(context.Background(), mine))

	got := readMessage(t, conn)
	assert.Equal(t, "EF250520002", got.BookingCode)
}

func TestWSHandler_RejectsNonStaff(t *testing.T) {
	_, tokens, url := startHub(t)
	token, err := tokens.GenerateToken(5, "customer")
	require.NoError(t, err)

	_, resp, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
