package overtime

import (
	"context"
	"fmt"

	"github.com/Spok95/linetrack/internal/docstore"
	"github.com/Spok95/linetrack/internal/domain/breakdown"
	"github.com/Spok95/linetrack/internal/domain/employees"
	"github.com/Spok95/linetrack/internal/domain/order"
)

const CollectionName = "otLists"

type Doc = docstore.Doc[List]

type Repo struct {
	docs       docstore.Collection[List]
	employees  *employees.Repo
	breakdowns *breakdown.Repo
}

func NewRepo(docs docstore.Collection[List], emps *employees.Repo, bds *breakdown.Repo) *Repo {
	return &Repo{docs: docs, employees: emps, breakdowns: bds}
}

func (r *Repo) Create(ctx context.Context, l List) (Doc, error) {
	rl, err := r.resolve(ctx, l)
	if err != nil {
		return Doc{}, err
	}
	return r.docs.Add(ctx, rl)
}

func (r *Repo) Update(ctx context.Context, id string, l List) (Doc, error) {
	rl, err := r.resolve(ctx, l)
	if err != nil {
		return Doc{}, err
	}
	return r.docs.Update(ctx, id, rl)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}

func (r *Repo) Get(ctx context.Context, id string) (Doc, error) {
	return r.docs.Get(ctx, id)
}

func (r *Repo) ListByDate(ctx context.Context, date string) ([]Doc, error) {
	if date == "" {
		return r.docs.List(ctx)
	}
	return r.docs.Find(ctx, "date", date)
}

type LineSummary struct {
	Date string    `json:"date"`
	Key  order.Key `json:"order"`
	Summary
	Text string `json:"text"`
}

// Summaries reports head counts per list for one day.
func (r *Repo) Summaries(ctx context.Context, date string) ([]LineSummary, error) {
	docs, err := r.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	out := make([]LineSummary, 0, len(docs))
	for _, d := range docs {
		s := d.Data.Summary()
		out = append(out, LineSummary{Date: d.Data.Date, Key: d.Data.Key, Summary: s, Text: s.String()})
	}
	return out, nil
}

func (r *Repo) resolve(ctx context.Context, l List) (List, error) {
	l.Key = l.Key.Normalize()
	if err := l.Validate(); err != nil {
		return List{}, err
	}
	empDocs, err := r.employees.List(ctx)
	if err != nil {
		return List{}, fmt.Errorf("load employees: %w", err)
	}
	bdDocs, err := r.breakdowns.List(ctx)
	if err != nil {
		return List{}, fmt.Errorf("load breakdowns: %w", err)
	}
	return Resolve(l, docstore.Data(empDocs), docstore.Data(bdDocs)), nil
}
