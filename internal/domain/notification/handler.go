package notification

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/pkg/jwt"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSHandler upgrades staff consoles onto the event hub.
type WSHandler struct {
	hub    *Hub
	tokens *jwt.Service
}

func NewWSHandler(hub *Hub, tokens *jwt.Service) *WSHandler {
	return &WSHandler{hub: hub, tokens: tokens}
}

func (h *WSHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/bookings", h.HandleWebSocket)
}

// HandleWebSocket serves GET /ws/bookings?token=JWT&location_id=1,2.
// Browsers cannot set headers on a socket, so the token may come from the
// query string.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Token is required")
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	if !claims.IsStaff() {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		return
	}

	var locations []int64
	for _, raw := range strings.Split(c.Query("location_id"), ",") {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid location_id")
			return
		}
		locations = append(locations, id)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed staff_id=%d error=%q", claims.UserID, err.Error())
		return
	}
	log.Printf("ws_connected staff_id=%d locations=%v", claims.UserID, locations)
	h.hub.ServeWS(conn, claims.UserID, locations)
	log.Printf("ws_disconnected staff_id=%d", claims.UserID)
}
