package httpapi

import (
	"fmt"
	"net/http"
	"time"
)

const defaultHeartbeat = 25 * time.Second

// cartEvents streams a cartUpdated event each time the session's cart
// changes. Clients re-read GET /api/cart on every event.
func (h *Handler) cartEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	session := Session(r)

	signals, unsubscribe := h.Cart.Subscribe(session)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "event: ready\ndata: {\"session\":%q}\n\n", session)
	if err := rc.Flush(); err != nil {
		return
	}

	heartbeat := h.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()
	closed := h.streamsClosed()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			fmt.Fprint(w, "event: cartUpdated\ndata: {}\n\n")
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
