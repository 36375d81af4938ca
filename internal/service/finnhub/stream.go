package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"NavPull/internal/domain/models"
	drepo "NavPull/internal/domain/repository"
	applogger "NavPull/pkg/logger"

	"github.com/gorilla/websocket"
)

// Stream implements MarketStream over the Finnhub trade WebSocket.
type Stream struct {
	apiKey         string
	websocketURL   string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	logger         *applogger.Logger

	// mu guards conn, symbols, and connected; the ping and read
	// goroutines observe conn while Reconnect/Close swap it.
	mu        sync.Mutex
	conn      *websocket.Conn
	symbols   []string
	connected bool
}

// NewStream creates a Finnhub WebSocket stream.
func NewStream(apiKey, websocketURL string, reconnectDelay, pingInterval time.Duration, logger *applogger.Logger) drepo.MarketStream {
	if websocketURL == "" {
		websocketURL = "wss://ws.finnhub.io"
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	return &Stream{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		logger:         logger,
	}
}

// Connect establishes the WebSocket connection.
func (s *Stream) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", s.websocketURL, s.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("finnhub connect: %w", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()
	s.logger.Info("finnhub stream connected")
	return nil
}

func (s *Stream) connRef() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// Subscribe subscribes to the given symbols and remembers them for
// reconnects.
func (s *Stream) Subscribe(_ context.Context, symbols []string) error {
	s.mu.Lock()
	conn, connected := s.conn, s.connected
	s.symbols = symbols
	s.mu.Unlock()
	if conn == nil || !connected {
		return fmt.Errorf("finnhub not connected")
	}
	for _, sym := range symbols {
		msg := map[string]string{"type": "subscribe", "symbol": sym}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
	}
	s.logger.Info("finnhub stream subscribed", applogger.Int("symbols", len(symbols)))
	return nil
}

type wsTrade struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	V float64 `json:"v"`
	T int64   `json:"t"` // ms
}

type wsMessage struct {
	Type string    `json:"type"`
	Data []wsTrade `json:"data"`
}

// Read streams trade events and errors until ctx is done.
func (s *Stream) Read(ctx context.Context) (<-chan *models.Trade, <-chan error) {
	trades := make(chan *models.Trade, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if conn := s.connRef(); conn != nil {
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(trades)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				conn := s.connRef()
				if conn == nil {
					errs <- fmt.Errorf("finnhub conn nil")
					return
				}
				_, b, err := conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("finnhub read: %w", err)
					return
				}
				var m wsMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-trade frames
					continue
				}
				if m.Type != "trade" {
					continue
				}
				for _, d := range m.Data {
					trade := &models.Trade{
						Symbol:    d.S,
						Timestamp: d.T / 1000,
						Price:     d.P,
						Volume:    d.V,
					}
					select {
					case trades <- trade:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return trades, errs
}

// Reconnect closes, waits, reconnects, and resubscribes.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	time.Sleep(s.reconnectDelay)
	if err := s.Connect(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	symbols := s.symbols
	s.mu.Unlock()
	return s.Subscribe(ctx, symbols)
}

// Close closes the WebSocket connection.
func (s *Stream) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.connected = false
	s.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// IsConnected indicates stream status.
func (s *Stream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}
