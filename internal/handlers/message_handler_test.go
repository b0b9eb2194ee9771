package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/messaging"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	ucmessage "github.com/BruksfildServices01/salon-scheduler/internal/usecase/message"
)

type stubGateway struct {
	configured bool
	err        error
}

func (g stubGateway) IsConfigured() bool { return g.configured }

func (g stubGateway) Send(context.Context, string, string) (*messaging.SendResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &messaging.SendResult{Success: true, ProviderStatus: 200, MessageID: "wamid.X"}, nil
}

type nopRecorder struct{}

func (nopRecorder) Dispatch(audit.Event) {}

func newMessageRouter(gw stubGateway, store *memMessages) *gin.Engine {
	gin.SetMode(gin.TestMode)
	send := ucmessage.NewSendMessage(gw, store, nopRecorder{}, zap.NewNop())
	h := NewMessageHandler(nil, send)

	r := gin.New()
	r.POST("/messages", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uint(1))
		c.Next()
	}, h.Send)
	return r
}

func TestMessageHandlerSend(t *testing.T) {
	cases := []struct {
		name string
		gw   stubGateway
		body string
		want int
	}{
		{"sent", stubGateway{configured: true}, `{"to":"391234567","body":"hi"}`, http.StatusCreated},
		{"bad phone", stubGateway{configured: true}, `{"to":"nope","body":"hi"}`, http.StatusBadRequest},
		{"missing body", stubGateway{configured: true}, `{"to":"391234567"}`, http.StatusBadRequest},
		{"not configured", stubGateway{}, `{"to":"391234567","body":"hi"}`, http.StatusServiceUnavailable},
		{"rejected", stubGateway{configured: true, err: &messaging.ProviderError{Status: 400, Message: "bad"}}, `{"to":"391234567","body":"hi"}`, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemMessages()
			r := newMessageRouter(tc.gw, store)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(tc.body)))
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
			if tc.want == http.StatusCreated && len(store.byID) != 1 {
				t.Fatalf("expected outbound message stored, got %d", len(store.byID))
			}
		})
	}
}
