package dialog

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory keeps dialog state in process. Payloads are stored as JSON so
// readers see the same types as with the database store.
type Memory struct {
	mu    sync.Mutex
	items map[int64]memItem
}

type memItem struct {
	state State
	raw   []byte
}

func NewMemory() *Memory { return &Memory{items: map[int64]memItem{}} }

func (m *Memory) Get(_ context.Context, chatID int64) (*Item, error) {
	m.mu.Lock()
	it, ok := m.items[chatID]
	m.mu.Unlock()
	if !ok {
		return &Item{ChatID: chatID, State: StateIdle, Payload: Payload{}}, nil
	}
	p := Payload{}
	if err := json.Unmarshal(it.raw, &p); err != nil {
		return nil, err
	}
	return &Item{ChatID: chatID, State: it.state, Payload: p}, nil
}

func (m *Memory) Set(_ context.Context, chatID int64, state State, payload Payload) error {
	if payload == nil {
		payload = Payload{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.items[chatID] = memItem{state: state, raw: raw}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Reset(_ context.Context, chatID int64) error {
	m.mu.Lock()
	delete(m.items, chatID)
	m.mu.Unlock()
	return nil
}
