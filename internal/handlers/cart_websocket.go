package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"marketplace_back_end/internal/cache"
	"marketplace_back_end/internal/middleware"
	"marketplace_back_end/internal/responses"
)

const (
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// CartEvent est le message envoyé aux clients websocket.
type CartEvent struct {
	Type    string    `json:"type"`
	Event   string    `json:"event,omitempty"`
	Message string    `json:"message,omitempty"`
	Cart    *CartView `json:"cart,omitempty"`
}

// CartWebSocket pousse le panier à jour à chaque notification Redis
// publiée par le cache panier. checkOrigin nil accepte toutes les origines.
func CartWebSocket(rdb redis.UniversalClient, svc CartService, checkOrigin func(*http.Request) bool) gin.HandlerFunc {
	upgrader := websocket.Upgrader{CheckOrigin: checkOrigin}
	if upgrader.CheckOrigin == nil {
		upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}

	return func(c *gin.Context) {
		if rdb == nil {
			responses.Fail(c, http.StatusServiceUnavailable, "Synchronisation temps réel indisponible")
			return
		}
		identity := middleware.GetIdentity(c)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("❌ Erreur upgrade WebSocket: %v", err)
			return
		}
		defer conn.Close()

		ctx := c.Request.Context()
		pubsub := rdb.Subscribe(ctx, cache.CartChannel(identity.UserID))
		defer pubsub.Close()
		if _, err := pubsub.Receive(ctx); err != nil {
			log.Printf("❌ Abonnement Redis panier %s: %v", identity.UserID, err)
			return
		}
		ch := pubsub.Channel()

		// Lecture en tâche de fond: nécessaire pour traiter close/pong.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		send := func(ev CartEvent) bool {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return false
			}
			return true
		}

		snapshot := func(event string) CartEvent {
			current, err := svc.Get(ctx, identity)
			if err != nil {
				log.Printf("⚠️ Lecture panier %s pour WebSocket: %v", identity.UserID, err)
				return CartEvent{Type: "error", Event: event, Message: "Panier indisponible"}
			}
			view := NewCartView(current)
			return CartEvent{Type: "cart_updated", Event: event, Cart: &view}
		}

		if !send(CartEvent{Type: "connected", Message: "Synchronisation panier activée"}) {
			return
		}
		if !send(snapshot("")) {
			return
		}

		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()

		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if msg.Payload != cache.EventUpdated && msg.Payload != cache.EventCleared {
					continue
				}
				if !send(snapshot(msg.Payload)) {
					return
				}
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
					return
				}
			case <-closed:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}
