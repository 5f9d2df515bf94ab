package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rcastellanos/InvoiceRAG/internal/api"
	"github.com/rcastellanos/InvoiceRAG/internal/metrics"
	"github.com/rcastellanos/InvoiceRAG/internal/rag"
	"github.com/rcastellanos/InvoiceRAG/pkg/logger_i"
)

// ChatSocketHandler streams answers over a websocket. One question per
// client message, fragments relayed as they arrive from the model.
type ChatSocketHandler struct {
	ragService rag.Service
	upgrader   websocket.Upgrader
	logger     *logger_i.Logger
}

func NewChatSocketHandler(ragService rag.Service) *ChatSocketHandler {
	return &ChatSocketHandler{
		ragService: ragService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			//the chat page is served from anywhere during development
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger_i.NewLogger("Chat Socket"),
	}
}

// Chat godoc
// @Summary      Chat over a websocket
// @Description  Upgrades to a websocket. Each client message is a JSON array of {role, content} turns; the answer streams back as init/append/finish actions.
// @Tags         Chat
// @Router       /ws/chat [get]
func (h *ChatSocketHandler) Chat(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	metrics.IncrementChatConnections()
	defer metrics.DecrementChatConnections()
	log := h.logger.With("remote", r.RemoteAddr)
	log.Info("Chat connection opened")

	for {
		var turns []api.ChatTurn
		if err := conn.ReadJSON(&turns); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Chat connection dropped", "error", err)
			} else {
				log.Info("Chat connection closed")
			}
			return
		}

		question := lastUserContent(turns)
		if question == "" {
			h.sendError(conn, log, "empty conversation")
			continue
		}

		if err := conn.WriteJSON(api.SocketMessage{Action: api.ActionInit}); err != nil {
			log.Warn("Could not start response", "error", err)
			return
		}

		h.ragService.StreamAnswer(r.Context(), question, func(fragment string) error {
			return conn.WriteJSON(api.SocketMessage{Action: api.ActionAppend, Content: fragment})
		})

		if err := conn.WriteJSON(api.SocketMessage{Action: api.ActionFinish}); err != nil {
			log.Warn("Could not finish response", "error", err)
			return
		}
	}
}

// lastUserContent takes the newest turn's content as the question. The full
// history still reaches retrieval indirectly through whatever the client
// chooses to send as the last turn.
func lastUserContent(turns []api.ChatTurn) string {
	if len(turns) == 0 {
		return ""
	}
	return turns[len(turns)-1].Content
}

func (h *ChatSocketHandler) sendError(conn *websocket.Conn, log *logger_i.Logger, message string) {
	if err := conn.WriteJSON(api.SocketMessage{Action: api.ActionError, Content: message}); err != nil {
		log.Debug("Could not deliver socket error", "error", err)
	}
}
