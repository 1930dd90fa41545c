package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"houseboat/pkg/config"
	"houseboat/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context, *readpref.ReadPref) error { return f.err }

type echoHandler struct{}

func (echoHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/echo", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	})
	router.GET("/api/v1/panic", func(http.ResponseWriter, *http.Request, httprouter.Params) {
		panic("boom")
	})
	router.GET("/api/v1/slow", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		<-r.Context().Done()
	})
}

func newTestApplication(pingErr error) *Application {
	cfg := &config.Config{
		Log:             logger.Discard(),
		Port:            "0",
		RequestTimeout:  50 * time.Millisecond,
		MaxRequestSize:  64,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}
	a := NewApplication(cfg)
	a.SetApp(fakePinger{err: pingErr}, echoHandler{})
	return a
}

func TestApplication_Routes(t *testing.T) {
	h := newTestApplication(nil).Handler()

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		contentType string
		want        int
	}{
		{name: "health", method: http.MethodGet, path: "/health", want: http.StatusOK},
		{name: "ready", method: http.MethodGet, path: "/ready", want: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", want: http.StatusOK},
		{name: "api", method: http.MethodPost, path: "/api/v1/echo", body: "{}", contentType: "application/json", want: http.StatusNoContent},
		{name: "wrong content type", method: http.MethodPost, path: "/api/v1/echo", body: "{}", contentType: "text/plain", want: http.StatusUnsupportedMediaType},
		{name: "body too large", method: http.MethodPost, path: "/api/v1/echo", body: strings.Repeat("x", 65), contentType: "application/json", want: http.StatusRequestEntityTooLarge},
		{name: "panic recovered", method: http.MethodGet, path: "/api/v1/panic", want: http.StatusInternalServerError},
		{name: "timeout", method: http.MethodGet, path: "/api/v1/slow", want: http.StatusGatewayTimeout},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/nothing", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestApplication_NotReady(t *testing.T) {
	h := newTestApplication(errors.New("no primary")).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestApplication_ShutdownRunsClosers(t *testing.T) {
	a := newTestApplication(nil)
	var order []string
	a.OnShutdown(func() error { order = append(order, "publisher"); return nil })
	a.OnShutdown(func() error { order = append(order, "mongo"); return errors.New("already closed") })

	a.gracefulShutdown()

	if strings.Join(order, ",") != "publisher,mongo" {
		t.Errorf("closers ran as %v", order)
	}
}
