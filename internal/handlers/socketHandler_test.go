package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/rcastellanos/InvoiceRAG/internal/api"
	"github.com/rcastellanos/InvoiceRAG/internal/handlers"
)

func dialChat(t *testing.T, h *handlers.ChatSocketHandler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.Chat))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) api.SocketMessage {
	t.Helper()
	var msg api.SocketMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return msg
}

func TestChatSocket_StreamsAnswer(t *testing.T) {
	mockRag := &mockRagService{}
	var askedQuestion string
	mockRag.OnStreamAnswer = func(ctx context.Context, question string, emit func(string) error) {
		askedQuestion = question
		_ = emit("The total ")
		_ = emit("is 100.")
	}

	conn := dialChat(t, handlers.NewChatSocketHandler(mockRag))

	turns := []api.ChatTurn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
		{Role: "user", Content: "what is the total?"},
	}
	if err := conn.WriteJSON(turns); err != nil {
		t.Fatal(err)
	}

	if msg := readMessage(t, conn); msg.Action != api.ActionInit {
		t.Fatalf("first action got %s, want %s", msg.Action, api.ActionInit)
	}

	var answer strings.Builder
	for {
		msg := readMessage(t, conn)
		if msg.Action == api.ActionFinish {
			break
		}
		if msg.Action != api.ActionAppend {
			t.Fatalf("unexpected action %s", msg.Action)
		}
		answer.WriteString(msg.Content)
	}

	if answer.String() != "The total is 100." {
		t.Errorf("streamed answer got %q", answer.String())
	}
	if askedQuestion != "what is the total?" {
		t.Errorf("question got %q, want the last turn's content", askedQuestion)
	}
}

func TestChatSocket_SecondQuestionOnSameConnection(t *testing.T) {
	mockRag := &mockRagService{}
	mockRag.OnStreamAnswer = func(ctx context.Context, question string, emit func(string) error) {
		_ = emit("answer to " + question)
	}

	conn := dialChat(t, handlers.NewChatSocketHandler(mockRag))

	for _, question := range []string{"first", "second"} {
		if err := conn.WriteJSON([]api.ChatTurn{{Role: "user", Content: question}}); err != nil {
			t.Fatal(err)
		}
		if msg := readMessage(t, conn); msg.Action != api.ActionInit {
			t.Fatalf("init missing for %q", question)
		}
		if msg := readMessage(t, conn); msg.Content != "answer to "+question {
			t.Errorf("answer got %q", msg.Content)
		}
		if msg := readMessage(t, conn); msg.Action != api.ActionFinish {
			t.Fatalf("finish missing for %q", question)
		}
	}
}

func TestChatSocket_EmptyConversation(t *testing.T) {
	conn := dialChat(t, handlers.NewChatSocketHandler(&mockRagService{}))

	if err := conn.WriteJSON([]api.ChatTurn{}); err != nil {
		t.Fatal(err)
	}

	msg := readMessage(t, conn)
	if msg.Action != api.ActionError {
		t.Fatalf("action got %s, want %s", msg.Action, api.ActionError)
	}
	if msg.Content == "" {
		t.Error("error message is empty")
	}
}
