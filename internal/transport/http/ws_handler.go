package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"triviaworlds/internal/app"
	"triviaworlds/internal/domain"
)

type WSHandler struct {
	service  *app.GameService
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startLevelPayload struct {
	Level int `json:"level"`
}

type answerPayload struct {
	Label string `json:"label"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type joinedPayload struct {
	PlayerID string                `json:"playerId"`
	Levels   []domain.LevelOutcome `json:"levels"`
}

type questionPayload struct {
	Level    int               `json:"level"`
	ID       string            `json:"id"`
	Prompt   string            `json:"prompt"`
	Options  map[string]string `json:"options"`
	Position int               `json:"position"`
}

type levelsPayload struct {
	Levels []domain.LevelOutcome `json:"levels"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one player's game
// from the connection's read loop.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	playerID, levels, err := h.service.Join(ctx, r.URL.Query().Get("playerId"))
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Leave(ctx, playerID)

	send := func(typ string, payload any) bool {
		if err := conn.WriteJSON(outboundMessage{Type: typ, Payload: payload}); err != nil {
			h.log.Debug("ws write error", zap.String("player", playerID), zap.Error(err))
			return false
		}
		return true
	}
	sendErr := func(err error) bool {
		return send("error", errorPayload{Message: err.Error()})
	}

	if !send("joined", joinedPayload{PlayerID: playerID, Levels: levels}) {
		return
	}

	var (
		level    int
		position int
	)
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		ok := true
		switch inbound.Type {
		case "startLevel":
			var payload startLevelPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				ok = send("error", errorPayload{Message: "invalid startLevel payload"})
				break
			}
			q, err := h.service.StartLevel(ctx, playerID, payload.Level)
			if err != nil {
				ok = sendErr(err)
				break
			}
			level, position = payload.Level, 1
			ok = send("question", toQuestionPayload(level, position, q))

		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				ok = send("error", errorPayload{Message: "invalid answer payload"})
				break
			}
			result, next, levelDone, err := h.service.SubmitAnswer(ctx, playerID, payload.Label)
			if err != nil {
				ok = sendErr(err)
				break
			}
			if ok = send("answerResult", result); !ok {
				break
			}
			if levelDone {
				ok = send("levelComplete", nil)
				break
			}
			position++
			ok = send("question", toQuestionPayload(level, position, next))

		case "finishLevel":
			report, err := h.service.FinishLevel(ctx, playerID)
			if err != nil {
				ok = sendErr(err)
				break
			}
			if ok = send("levelFinished", report); ok && report.GameComplete {
				ok = send("gameComplete", nil)
			}

		case "levels":
			outcomes, err := h.service.Levels(ctx, playerID)
			if err != nil {
				ok = sendErr(err)
				break
			}
			ok = send("levels", levelsPayload{Levels: outcomes})

		default:
			ok = send("error", errorPayload{Message: "unsupported message type"})
		}
		if !ok {
			return
		}
	}
}

func toQuestionPayload(level, position int, q domain.Question) questionPayload {
	return questionPayload{
		Level:    level,
		ID:       q.ID,
		Prompt:   q.Prompt,
		Options:  q.Options,
		Position: position,
	}
}
