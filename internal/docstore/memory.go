package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memDoc struct {
	id        string
	slNo      int
	createdAt time.Time
	raw       []byte
}

// Memory is an in-process Collection. Payloads go through JSON exactly as
// they do in Postgres, so what comes back is what a reload would see.
type Memory[T any] struct {
	mu   sync.RWMutex
	name string
	docs map[string]memDoc
	opts options
}

func NewMemory[T any](name string, opts ...Option) *Memory[T] {
	return &Memory[T]{name: name, docs: make(map[string]memDoc), opts: buildOptions(opts)}
}

func (m *Memory[T]) Name() string { return m.name }

func (m *Memory[T]) Add(ctx context.Context, data T) (Doc[T], error) {
	docs, err := m.AddBatch(ctx, []T{data})
	if err != nil {
		return Doc[T]{}, err
	}
	return docs[0], nil
}

func (m *Memory[T]) AddBatch(ctx context.Context, data []T) ([]Doc[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raws := make([][]byte, 0, len(data))
	for _, d := range data {
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", m.name, err)
		}
		raws = append(raws, raw)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Doc[T], 0, len(data))
	now := time.Now().UTC()
	sl := m.maxSlNo()
	for _, raw := range raws {
		sl++
		md := memDoc{id: uuid.NewString(), slNo: sl, createdAt: now, raw: raw}
		m.docs[md.id] = md
		doc, err := decode[T](md)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	m.opts.observe(m.name, "add")
	return out, nil
}

// maxSlNo must be called with m.mu held.
func (m *Memory[T]) maxSlNo() int {
	n := 0
	for _, md := range m.docs {
		n = max(n, md.slNo)
	}
	return n
}

func (m *Memory[T]) Get(ctx context.Context, id string) (Doc[T], error) {
	if err := ctx.Err(); err != nil {
		return Doc[T]{}, err
	}
	m.mu.RLock()
	md, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return Doc[T]{}, ErrNotFound
	}
	return decode[T](md)
}

func (m *Memory[T]) Update(ctx context.Context, id string, data T) (Doc[T], error) {
	if err := ctx.Err(); err != nil {
		return Doc[T]{}, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Doc[T]{}, fmt.Errorf("marshal %s: %w", m.name, err)
	}
	m.mu.Lock()
	md, ok := m.docs[id]
	if ok {
		md.raw = raw
		m.docs[id] = md
	}
	m.mu.Unlock()
	if !ok {
		return Doc[T]{}, ErrNotFound
	}
	m.opts.observe(m.name, "update")
	return decode[T](md)
}

func (m *Memory[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	_, ok := m.docs[id]
	delete(m.docs, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	m.opts.observe(m.name, "delete")
	return nil
}

func (m *Memory[T]) List(ctx context.Context) ([]Doc[T], error) {
	return m.filter(ctx, func(memDoc) (bool, error) { return true, nil })
}

func (m *Memory[T]) Find(ctx context.Context, field, value string) ([]Doc[T], error) {
	return m.filter(ctx, func(md memDoc) (bool, error) {
		var fields map[string]any
		if err := json.Unmarshal(md.raw, &fields); err != nil {
			return false, err
		}
		s, ok := fields[field].(string)
		return ok && s == value, nil
	})
}

func (m *Memory[T]) filter(ctx context.Context, keep func(memDoc) (bool, error)) ([]Doc[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	mds := make([]memDoc, 0, len(m.docs))
	for _, md := range m.docs {
		mds = append(mds, md)
	}
	m.mu.RUnlock()
	sort.Slice(mds, func(i, j int) bool { return mds[i].slNo < mds[j].slNo })

	out := []Doc[T]{}
	for _, md := range mds {
		ok, err := keep(md)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		doc, err := decode[T](md)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func decode[T any](md memDoc) (Doc[T], error) {
	doc := Doc[T]{ID: md.id, SlNo: md.slNo, CreatedAt: md.createdAt}
	if err := json.Unmarshal(md.raw, &doc.Data); err != nil {
		return Doc[T]{}, fmt.Errorf("decode document %s: %w", md.id, err)
	}
	return doc, nil
}
