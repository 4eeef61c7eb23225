package users

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is the in-process user store used without a database.
type Memory struct {
	mu     sync.Mutex
	nextID int64
	byTG   map[int64]User
}

func NewMemory() *Memory { return &Memory{byTG: map[int64]User{}} }

func (m *Memory) GetByTelegramID(_ context.Context, tgID int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byTG[tgID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *Memory) UpsertFromTelegram(_ context.Context, tg Telegram, role Role) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	u, ok := m.byTG[tg.ID]
	if !ok {
		m.nextID++
		u = User{ID: m.nextID, TelegramID: tg.ID, CreatedAt: now}
	}
	u.Username, u.FirstName, u.LastName = tg.Username, tg.FirstName, tg.LastName
	u.Role = merge(u.Role, role)
	u.UpdatedAt = now
	m.byTG[tg.ID] = u
	return &u, nil
}

func (m *Memory) SetLine(_ context.Context, tgID int64, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byTG[tgID]
	if !ok {
		return ErrNotFound
	}
	u.LineNumber = line
	u.UpdatedAt = time.Now().UTC()
	m.byTG[tgID] = u
	return nil
}

func (m *Memory) List(context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]User, 0, len(m.byTG))
	for _, u := range m.byTG {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
