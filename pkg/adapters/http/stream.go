package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// allTabs subscribes to the events of every tab, selection changes included.
const allTabs domain.TabID = "*"

// TreeHub fans tree events out to the SSE subscribers of each tab.
type TreeHub struct {
	mu     sync.RWMutex
	subs   map[domain.TabID]map[chan string]struct{}
	logger *slog.Logger
}

// NewTreeHub creates an empty hub.
func NewTreeHub(logger *slog.Logger) *TreeHub {
	return &TreeHub{
		subs:   make(map[domain.TabID]map[chan string]struct{}),
		logger: logger,
	}
}

// Subscribe registers a subscriber for the events of tab. The empty tab and
// "*" receive every event. The returned func unsubscribes and closes the
// channel.
func (h *TreeHub) Subscribe(tab domain.TabID) (<-chan string, func()) {
	if tab == "" {
		tab = allTabs
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan string, 10)
	if h.subs[tab] == nil {
		h.subs[tab] = make(map[chan string]struct{})
	}
	h.subs[tab][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[tab], ch)
			if len(h.subs[tab]) == 0 {
				delete(h.subs, tab)
			}
			close(ch)
		})
	}
}

// Subscribers returns the number of subscribers of tab.
func (h *TreeHub) Subscribers(tab domain.TabID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[tab])
}

// Publish delivers event to the subscribers of every tab and to those of the
// tab it concerns. Selection changes carry no tab and only reach the former.
func (h *TreeHub) Publish(event TreeEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("tree event encode failed", "error", err)
		return
	}
	msg := string(data)

	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliverLocked(allTabs, msg)
	if event.Tab != "" && event.Tab != allTabs {
		h.deliverLocked(event.Tab, msg)
	}
}

func (h *TreeHub) deliverLocked(tab domain.TabID, msg string) {
	subs := h.subs[tab]
	if len(subs) == 0 {
		return
	}
	h.logger.Debug("publishing tree event", "tab", tab, "subscribers", len(subs), "size", len(msg))
	for ch := range subs {
		select {
		case ch <- msg:
		default:
			h.logger.Warn("SSE: client buffer full, dropping event", "tab", tab)
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE). With ?tab=<id> only
// the changes of that tab are streamed.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	tab := domain.TabID(r.URL.Query().Get("tab"))
	if tab != "" && !s.hasTab(tab) {
		s.writeError(w, fmt.Errorf("%w: %s", domain.ErrUnknownTab, tab))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(tab)
	defer cancel()
	s.logger.Info("SSE: subscribed", "tab", tab)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "tab", tab)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) hasTab(id domain.TabID) bool {
	for _, t := range s.App.Snapshot().Tabs {
		if t.ID == id {
			return true
		}
	}
	return false
}
