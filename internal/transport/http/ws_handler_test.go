package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"triviaworlds/internal/app"
	"triviaworlds/internal/domain"
	"triviaworlds/internal/infra/memory"
)

func TestWebSocketLevelFlow(t *testing.T) {
	conn := dialGame(t, "p1")

	_, joined := readNext(conn, t, "joined")
	if joined["playerId"] != "p1" {
		t.Fatalf("expected playerId p1, got %v", joined["playerId"])
	}
	if levels, _ := joined["levels"].([]any); len(levels) != app.DefaultTotalLevels || levels[0] != "not_attempted" {
		t.Fatalf("unexpected levels %v", joined["levels"])
	}

	send(t, conn, "startLevel", map[string]any{"level": 1})
	_, question := readNext(conn, t, "question")
	if question["position"] != float64(1) || question["level"] != float64(1) {
		t.Fatalf("unexpected first question %v", question)
	}
	if _, leaked := question["correctLabel"]; leaked {
		t.Fatalf("question payload must not reveal the answer")
	}

	for i := 1; i <= app.DefaultQuestionsPerLevel; i++ {
		send(t, conn, "answer", map[string]any{"label": "a"})
		_, result := readNext(conn, t, "answerResult")
		if result["wasCorrect"] != true {
			t.Fatalf("answer %d: expected correct, got %v", i, result)
		}
		if i < app.DefaultQuestionsPerLevel {
			_, next := readNext(conn, t, "question")
			if next["position"] != float64(i+1) {
				t.Fatalf("expected position %d, got %v", i+1, next["position"])
			}
		}
	}
	readNext(conn, t, "levelComplete")

	send(t, conn, "finishLevel", nil)
	_, report := readNext(conn, t, "levelFinished")
	if report["outcome"] != "passed" || report["correctCount"] != float64(app.DefaultQuestionsPerLevel) {
		t.Fatalf("unexpected report %v", report)
	}

	send(t, conn, "levels", nil)
	_, levels := readNext(conn, t, "levels")
	if got := levels["levels"].([]any)[0]; got != "passed" {
		t.Fatalf("expected level 1 passed, got %v", got)
	}
}

func TestWebSocketReportsErrors(t *testing.T) {
	conn := dialGame(t, "p2")
	readNext(conn, t, "joined")

	send(t, conn, "answer", map[string]any{"label": "A"})
	_, payload := readNext(conn, t, "error")
	if payload["message"] != domain.ErrLevelNotStarted.Error() {
		t.Fatalf("unexpected error %v", payload["message"])
	}

	send(t, conn, "startLevel", map[string]any{"level": 42})
	_, payload = readNext(conn, t, "error")
	if !strings.Contains(payload["message"].(string), domain.ErrLevelOutOfRange.Error()) {
		t.Fatalf("unexpected error %v", payload["message"])
	}

	send(t, conn, "startLevel", map[string]any{"level": 1})
	readNext(conn, t, "question")
	send(t, conn, "answer", map[string]any{"label": " "})
	_, payload = readNext(conn, t, "error")
	if payload["message"] != domain.ErrNoSelection.Error() {
		t.Fatalf("unexpected error %v", payload["message"])
	}

	send(t, conn, "dance", nil)
	readNext(conn, t, "error")
}

func dialGame(t *testing.T, playerID string) *websocket.Conn {
	t.Helper()
	store := memory.NewSessionStore()
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(map[string]domain.QuestionBank{
		"default": sampleBank(),
	}), time.Minute)
	service := app.NewGameService(store, banks, app.GameConfig{BankSource: "default"}, zaptest.NewLogger(t), nil)
	wsHandler := NewWSHandler(service, zaptest.NewLogger(t))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	u := "ws" + server.URL[len("http"):] + "/ws?playerId=" + playerID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	msg := map[string]any{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

// sampleBank has exactly one level's worth of questions, all answered by A.
func sampleBank() domain.QuestionBank {
	questions := make([]domain.Question, app.DefaultQuestionsPerLevel)
	for i := range questions {
		questions[i] = domain.Question{
			ID:           fmt.Sprintf("q%d", i+1),
			Prompt:       fmt.Sprintf("What is %d * 10?", i+1),
			Options:      map[string]string{"A": fmt.Sprint((i + 1) * 10), "B": "1", "C": "2", "D": "3"},
			CorrectLabel: "A",
		}
	}
	return domain.QuestionBank{Source: "default", Questions: questions}
}
