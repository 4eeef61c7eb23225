package breakdown

import (
	"context"
	"strings"

	"github.com/Spok95/linetrack/internal/docstore"
	"github.com/Spok95/linetrack/internal/domain/order"
)

const CollectionName = "operationBreakdowns"

type Doc = docstore.Doc[Breakdown]

type Repo struct {
	docs docstore.Collection[Breakdown]
}

func NewRepo(docs docstore.Collection[Breakdown]) *Repo { return &Repo{docs: docs} }

func (r *Repo) Create(ctx context.Context, b Breakdown) (Doc, error) {
	nb, err := b.Normalize()
	if err != nil {
		return Doc{}, err
	}
	return r.docs.Add(ctx, nb)
}

func (r *Repo) Update(ctx context.Context, id string, b Breakdown) (Doc, error) {
	nb, err := b.Normalize()
	if err != nil {
		return Doc{}, err
	}
	return r.docs.Update(ctx, id, nb)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}

func (r *Repo) List(ctx context.Context) ([]Doc, error) {
	return r.docs.List(ctx)
}

// Search keeps breakdowns whose PF contains q, ignoring case.
func (r *Repo) Search(ctx context.Context, q string) ([]Doc, error) {
	docs, err := r.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	out := []Doc{}
	for _, d := range docs {
		if q == "" || strings.Contains(strings.ToLower(d.Data.PF), q) {
			out = append(out, d)
		}
	}
	return out, nil
}

// FindByPF returns the first breakdown whose PF matches exactly, ignoring case.
func (r *Repo) FindByPF(ctx context.Context, pf string) (Doc, error) {
	docs, err := r.docs.List(ctx)
	if err != nil {
		return Doc{}, err
	}
	for _, d := range docs {
		if strings.EqualFold(d.Data.PF, strings.TrimSpace(pf)) {
			return d, nil
		}
	}
	return Doc{}, docstore.ErrNotFound
}

// ForOrder returns the breakdown that covers k, if any.
func (r *Repo) ForOrder(ctx context.Context, k order.Key) (Breakdown, bool, error) {
	docs, err := r.docs.List(ctx)
	if err != nil {
		return Breakdown{}, false, err
	}
	for _, d := range docs {
		if d.Data.Key == k {
			return d.Data, true, nil
		}
	}
	return Breakdown{}, false, nil
}
