package marketdata

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const FinnhubWSURL = "wss://ws.finnhub.io"

// FinnhubStream subscribes to the Finnhub trade feed and fans streamed
// last prices out to registered callbacks. It is optional: without an
// API key the agent runs on delayed quotes only.
type FinnhubStream struct {
	wsURL  string
	apiKey string
	logger *zap.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	done      chan struct{}
	callbacks []func(ticker string, price float64)
}

func NewFinnhubStream(wsURL, apiKey string, logger *zap.Logger) *FinnhubStream {
	if wsURL == "" {
		wsURL = FinnhubWSURL
	}
	return &FinnhubStream{
		wsURL:  wsURL,
		apiKey: apiKey,
		logger: logger,
	}
}

func (f *FinnhubStream) OnPriceUpdate(callback func(ticker string, price float64)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks = append(f.callbacks, callback)
}

func (f *FinnhubStream) Connect(tickers []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conn != nil {
		return f.subscribe(tickers)
	}

	c, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s?token=%s", f.wsURL, f.apiKey), nil)
	if err != nil {
		return err
	}
	// Each connection gets its own done channel so a later reconnect
	// cannot close a channel the previous read loop already closed.
	f.conn = c
	f.done = make(chan struct{})

	go f.readLoop(c, f.done)

	return f.subscribe(tickers)
}

func (f *FinnhubStream) subscribe(tickers []string) error {
	for _, ticker := range tickers {
		msg := map[string]interface{}{
			"type":   "subscribe",
			"symbol": ticker,
		}
		if err := f.conn.WriteJSON(msg); err != nil {
			return err
		}
	}
	return nil
}

type finnhubMessage struct {
	Type string `json:"type"`
	Data []struct {
		Symbol string  `json:"s"`
		Price  float64 `json:"p"`
		Volume float64 `json:"v"`
	} `json:"data"`
}

func (f *FinnhubStream) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer func() {
		conn.Close()
		f.mu.Lock()
		if f.conn == conn {
			f.conn = nil
		}
		f.mu.Unlock()
		close(done)
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			f.logger.Warn("Stream read error", zap.Error(err))
			return
		}

		var msg finnhubMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			f.logger.Warn("Stream unmarshal error", zap.Error(err))
			continue
		}
		if msg.Type != "trade" {
			continue
		}

		f.mu.Lock()
		callbacks := make([]func(string, float64), len(f.callbacks))
		copy(callbacks, f.callbacks)
		f.mu.Unlock()

		for _, t := range msg.Data {
			for _, cb := range callbacks {
				cb(t.Symbol, t.Price)
			}
		}
	}
}

// Done is closed when the current connection's read loop exits. It
// returns nil before the first Connect.
func (f *FinnhubStream) Done() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

func (f *FinnhubStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn == nil {
		return nil
	}
	return f.conn.Close()
}
