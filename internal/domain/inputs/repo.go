package inputs

import (
	"context"

	"github.com/Spok95/linetrack/internal/docstore"
	"github.com/Spok95/linetrack/internal/domain/order"
)

const CollectionName = "inputs"

type Doc = docstore.Doc[Input]

type Repo struct {
	docs docstore.Collection[Input]
}

func NewRepo(docs docstore.Collection[Input]) *Repo { return &Repo{docs: docs} }

func (r *Repo) Create(ctx context.Context, in Input) (Doc, error) {
	if err := in.Validate(); err != nil {
		return Doc{}, err
	}
	return r.docs.Add(ctx, in.Normalize())
}

func (r *Repo) Update(ctx context.Context, id string, in Input) (Doc, error) {
	if err := in.Validate(); err != nil {
		return Doc{}, err
	}
	return r.docs.Update(ctx, id, in.Normalize())
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}

func (r *Repo) Get(ctx context.Context, id string) (Doc, error) {
	return r.docs.Get(ctx, id)
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Doc, error) {
	docs, err := r.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []Doc{}
	for _, d := range docs {
		if f.Match(d.Data) {
			out = append(out, d)
		}
	}
	return out, nil
}

// ForOrder returns every input issued against k.
func (r *Repo) ForOrder(ctx context.Context, k order.Key) ([]Input, error) {
	docs, err := r.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []Input{}
	for _, d := range docs {
		if d.Data.Key == k {
			out = append(out, d.Data)
		}
	}
	return out, nil
}

// Options feeds cascading pickers in the output and overtime forms.
func (r *Repo) Options(ctx context.Context) (order.Options, error) {
	docs, err := r.docs.List(ctx)
	if err != nil {
		return order.Options{}, err
	}
	keys := make([]order.Key, 0, len(docs))
	for _, d := range docs {
		keys = append(keys, d.Data.Key)
	}
	return order.NewOptions(keys), nil
}
