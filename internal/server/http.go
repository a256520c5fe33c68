package server

import (
	"context"
	_ "embed"
	"log/slog"
	"net/http"

	"EvoScope/internal/protocol"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/* ------------------------------ Embeds ------------------------------ */

//go:embed web/index.html
var htmlIndex []byte

//go:embed web/client.js
var jsClient []byte

/* ------------------------------- HTTP ------------------------------- */

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func newRouter(ctx context.Context, hub *Hub, log *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(htmlIndex)
	})
	r.Get("/client.js", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write(jsClient)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		serveWS(ctx, hub, log, w, req)
	})
	return r
}

// serveWS upgrades one observer connection and runs its session. The codec
// is chosen by the client via the codec query parameter; the browser page
// uses json, everything else defaults to msgpack.
func serveWS(ctx context.Context, hub *Hub, log *slog.Logger, w http.ResponseWriter, r *http.Request) {
	codec, err := protocol.ByName(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("upgrade failed", "err", err)
		return
	}

	s := newSession(hub, conn, codec, log)
	if !hub.register(s) {
		log.Warn("refusing connection, hub at capacity", "max", hub.maxSessions)
		conn.Close()
		return
	}
	s.Run(ctx)
}
