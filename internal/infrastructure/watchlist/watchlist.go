package watchlist

import (
	"encoding/json"
	"os"
	"sync"
)

// defaultTickers seeds a new watchlist file: high-beta growth names
// where score differentials between candidates are large enough to
// rotate on.
var defaultTickers = []string{
	"NVDA", "AMD", "SMCI", "AVGO", "MRVL",
	"TSLA", "RIVN", "PLTR", "CRWD", "NET",
	"DDOG", "ANET", "PANW", "COIN", "MSTR",
}

// FileWatchlist is a JSON-file backed candidate list. Edits to the file
// are picked up with Reload; the agent reads a cached copy per cycle.
type FileWatchlist struct {
	path string

	mu      sync.Mutex
	tickers []string
}

type fileFormat struct {
	Tickers []string `json:"tickers"`
}

// Load opens the watchlist at path, creating it with the default
// tickers if it does not exist.
func Load(path string) (*FileWatchlist, error) {
	w := &FileWatchlist{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		w.tickers = append([]string(nil), defaultTickers...)
		if err := w.save(); err != nil {
			return nil, err
		}
		return w, nil
	}

	if err := w.Reload(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *FileWatchlist) Reload() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	w.mu.Lock()
	w.tickers = f.Tickers
	w.mu.Unlock()
	return nil
}

func (w *FileWatchlist) save() error {
	w.mu.Lock()
	data, err := json.MarshalIndent(fileFormat{Tickers: w.tickers}, "", "  ")
	w.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(w.path, data, 0o644)
}

// Tickers returns a copy of the current candidate list.
func (w *FileWatchlist) Tickers() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.tickers...)
}

// Add appends a ticker if not already present and persists the file.
func (w *FileWatchlist) Add(ticker string) error {
	w.mu.Lock()
	for _, t := range w.tickers {
		if t == ticker {
			w.mu.Unlock()
			return nil
		}
	}
	w.tickers = append(w.tickers, ticker)
	w.mu.Unlock()
	return w.save()
}

// Remove drops a ticker and persists the file.
func (w *FileWatchlist) Remove(ticker string) error {
	w.mu.Lock()
	out := w.tickers[:0]
	for _, t := range w.tickers {
		if t != ticker {
			out = append(out, t)
		}
	}
	w.tickers = out
	w.mu.Unlock()
	return w.save()
}
