// Package totalsfeed provides a client-side observable store for financial
// totals. It keeps the latest snapshot, refreshes it over HTTP, and applies
// live updates pushed over the WebSocket endpoint.
package totalsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/paisatrack/paisa-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// Listener receives totals snapshots as they change
type Listener func(totals *domain.FinancialTotals)

type listenerEntry struct {
	id int
	fn Listener
}

// Feed is an observable store for a single user's totals. Listeners are
// notified in subscription order on every snapshot change.
type Feed struct {
	baseURL    string
	token      string
	userID     uuid.UUID
	httpClient *http.Client
	dialer     *gws.Dialer

	mu        sync.Mutex
	listeners []listenerEntry
	nextID    int
	totals    *domain.FinancialTotals

	conn   *gws.Conn
	done   chan struct{}
	closed sync.Once
}

// New creates a Feed for the given user. baseURL is the API root, e.g.
// "https://api.paisatrack.app".
func New(baseURL, token string, userID uuid.UUID) *Feed {
	return &Feed{
		baseURL:    baseURL,
		token:      token,
		userID:     userID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		dialer:     gws.DefaultDialer,
		done:       make(chan struct{}),
	}
}

// Subscribe registers a listener and returns an unsubscribe function.
// Unsubscribing twice is a no-op. When a snapshot is already held, the
// listener is invoked immediately with it.
func (f *Feed) Subscribe(fn Listener) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners = append(f.listeners, listenerEntry{id: id, fn: fn})
	current := f.totals
	f.mu.Unlock()

	if current != nil {
		invoke(fn, current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i, entry := range f.listeners {
				if entry.id == id {
					f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Totals returns the last known snapshot, or nil before the first refresh
// or push arrives.
func (f *Feed) Totals() *domain.FinancialTotals {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totals
}

// Refresh pulls the current snapshot over HTTP. On failure the last known
// snapshot is kept and the error is returned.
func (f *Feed) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/api/v1/dashboard/totals", nil)
	if err != nil {
		return fmt.Errorf("build totals request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch totals: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch totals: unexpected status %d", resp.StatusCode)
	}

	var totals domain.FinancialTotals
	if err := json.NewDecoder(resp.Body).Decode(&totals); err != nil {
		return fmt.Errorf("decode totals: %w", err)
	}

	f.apply(&totals)
	return nil
}

// Connect opens the WebSocket connection and starts applying pushed
// updates until Destroy is called or the connection drops.
func (f *Feed) Connect(ctx context.Context) error {
	wsURL, err := f.websocketURL()
	if err != nil {
		return err
	}

	conn, _, err := f.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial websocket: %w", err)
	}

	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	go f.readLoop(conn)
	return nil
}

// Destroy unsubscribes all listeners and closes the connection. Safe to
// call more than once.
func (f *Feed) Destroy() {
	f.closed.Do(func() {
		close(f.done)

		f.mu.Lock()
		f.listeners = nil
		conn := f.conn
		f.conn = nil
		f.mu.Unlock()

		if conn != nil {
			conn.Close()
		}
	})
}

func (f *Feed) websocketURL() (string, error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"token": {f.token}}.Encode()
	return u.String(), nil
}

func (f *Feed) readLoop(conn *gws.Conn) {
	defer conn.Close()

	topic := websocket.TotalsTopic(f.userID)

	for {
		select {
		case <-f.done:
			return
		default:
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-f.done:
			default:
				log.Debug().Err(err).Msg("Totals feed connection closed")
			}
			return
		}

		var event struct {
			Topic   string              `json:"topic"`
			Type    websocket.EventType `json:"type"`
			Payload json.RawMessage     `json:"payload"`
		}
		if err := json.Unmarshal(data, &event); err != nil {
			log.Debug().Err(err).Msg("Ignoring malformed push message")
			continue
		}

		if event.Topic != topic || event.Type != websocket.EventTypeTotalsUpdated {
			continue
		}

		var totals domain.FinancialTotals
		if err := json.Unmarshal(event.Payload, &totals); err != nil {
			log.Debug().Err(err).Msg("Ignoring malformed totals payload")
			continue
		}

		f.apply(&totals)
	}
}

// apply stores the snapshot and notifies listeners in subscription order.
// A stale push (older than the held snapshot) is dropped.
func (f *Feed) apply(totals *domain.FinancialTotals) {
	f.mu.Lock()
	if f.totals != nil && totals.LastCalculated.Before(f.totals.LastCalculated) {
		f.mu.Unlock()
		return
	}
	f.totals = totals
	current := make([]listenerEntry, len(f.listeners))
	copy(current, f.listeners)
	f.mu.Unlock()

	for _, entry := range current {
		invoke(entry.fn, totals)
	}
}

// invoke calls a listener, isolating panics so one bad listener cannot
// break the others.
func invoke(fn Listener, totals *domain.FinancialTotals) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Totals listener panicked")
		}
	}()
	fn(totals)
}
