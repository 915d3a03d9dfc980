package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Mr-Racnok/akui-esport/brackets"
	"github.com/Mr-Racnok/akui-esport/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS-политика настраивается на уровне роутера; сам счётчик
		// команд публичный, скрывать его не от кого.
		return true
	},
}

type WebSocketHandler struct {
	hub           *brackets.Hub
	rosterService services.RosterService
	maxTeams      int
}

func NewWebSocketHandler(hub *brackets.Hub, rs services.RosterService, maxTeams int) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           hub,
		rosterService: rs,
		maxTeams:      maxTeams,
	}
}

// ServeWs подключает вкладку лендинга к живому счётчику регистраций.
// Сразу после апгрейда клиент получает текущее значение, дальше — push после
// каждой успешной регистрации.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	count, err := h.rosterService.TeamCount(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправил клиенту HTTP-ошибку.
		log.Printf("Failed to upgrade websocket connection: %v", err)
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	initial, err := json.Marshal(brackets.Message{
		Type:    brackets.MessageTypeTeamCount,
		Payload: brackets.TeamCountPayload{TeamCount: count, MaxTeams: h.maxTeams},
	})
	if err == nil {
		client.Send <- initial
	}

	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
