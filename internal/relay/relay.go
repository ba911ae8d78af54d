// Package relay implements a websocket broadcaster: every frame a
// participant sends on a topic is fanned out to every other participant
// currently subscribed to that topic. The relay never inspects frame
// contents; it only reads the one-byte type tag far enough to log it and
// otherwise treats frames as opaque bytes.
package relay

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"stringphone/internal/log"
	"stringphone/internal/presence"
	"stringphone/internal/wire"
)

// Relay holds the live subscriber set for every topic it is serving.
type Relay struct {
	mu       sync.Mutex
	topics   map[string]map[*websocket.Conn]struct{}
	backlog  *presence.Store
	upgrader websocket.Upgrader
}

func New(backlog *presence.Store) *Relay {
	return &Relay{
		topics:  make(map[string]map[*websocket.Conn]struct{}),
		backlog: backlog,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router returns an http.Handler serving the relay's single endpoint.
func (r *Relay) Router() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/topics/{topic}", r.handleSubscribe).Methods(http.MethodGet)
	return router
}

func (r *Relay) handleSubscribe(w http.ResponseWriter, req *http.Request) {
	topic := mux.Vars(req)["topic"]
	if topic == "" {
		http.Error(w, "topic cannot be empty", http.StatusBadRequest)
		return
	}

	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Error("upgrade failed", zap.Error(err))
		return
	}

	r.subscribe(topic, conn)
	defer r.unsubscribe(topic, conn)

	if err := r.flushBacklog(req.Context(), topic, conn); err != nil {
		log.Error("flush backlog failed", zap.String("topic", topic), zap.Error(err))
	}

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			log.Debug("subscriber connection closed", zap.String("topic", topic), zap.Error(err))
			return
		}

		tag, err := wire.Tag(frame)
		if err != nil {
			log.Debug("dropping malformed frame", zap.String("topic", topic))
			continue
		}
		log.Debug("relaying frame", zap.String("topic", topic), zap.String("tag", string(tag)))

		r.broadcast(topic, conn, frame)
	}
}

func (r *Relay) subscribe(topic string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.topics[topic] == nil {
		r.topics[topic] = make(map[*websocket.Conn]struct{})
	}
	r.topics[topic][conn] = struct{}{}
}

func (r *Relay) unsubscribe(topic string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.topics[topic], conn)
	if len(r.topics[topic]) == 0 {
		delete(r.topics, topic)
	}
	conn.Close()
}

// broadcast sends frame to every subscriber of topic except from. If no
// other subscriber is currently listening, frame is backlogged so the
// next subscriber to join can catch up.
func (r *Relay) broadcast(topic string, from *websocket.Conn, frame []byte) {
	r.mu.Lock()
	subscribers := r.topics[topic]
	sent := false
	for conn := range subscribers {
		if conn == from {
			continue
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			log.Error("write to subscriber failed", zap.String("topic", topic), zap.Error(err))
			continue
		}
		sent = true
	}
	r.mu.Unlock()

	if !sent {
		if err := r.backlog.Enqueue(context.Background(), topic, frame); err != nil {
			log.Error("backlog enqueue failed", zap.String("topic", topic), zap.Error(err))
		}
	}
}

func (r *Relay) flushBacklog(ctx context.Context, topic string, conn *websocket.Conn) error {
	frames, err := r.backlog.Drain(ctx, topic)
	if err != nil {
		return err
	}
	for _, frame := range frames {
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return err
		}
	}
	return nil
}
