package outputs

import (
	"context"
	"fmt"

	"github.com/Spok95/linetrack/internal/docstore"
	"github.com/Spok95/linetrack/internal/domain/inputs"
	"github.com/Spok95/linetrack/internal/domain/order"
)

const CollectionName = "outputs"

type Doc = docstore.Doc[Output]

type Repo struct {
	docs   docstore.Collection[Output]
	inputs *inputs.Repo
}

func NewRepo(docs docstore.Collection[Output], inputsRepo *inputs.Repo) *Repo {
	return &Repo{docs: docs, inputs: inputsRepo}
}

// Draft starts a new output for k with sizes prefilled from the input
// register and earlier outputs.
func (r *Repo) Draft(ctx context.Context, date string, k order.Key) (Output, error) {
	ins, err := r.inputs.ForOrder(ctx, k)
	if err != nil {
		return Output{}, fmt.Errorf("load inputs: %w", err)
	}
	prev, err := r.forOrder(ctx, k)
	if err != nil {
		return Output{}, fmt.Errorf("load outputs: %w", err)
	}
	out := Output{Date: date, Key: k, Sizes: Prefill(k, ins, prev)}
	for _, in := range ins {
		if in.SewingFinishDate > out.SewingFinishDate {
			out.SewingFinishDate = in.SewingFinishDate
		}
	}
	return out.Normalize(), nil
}

func (r *Repo) Create(ctx context.Context, o Output) (Doc, error) {
	if err := o.Validate(); err != nil {
		return Doc{}, err
	}
	return r.docs.Add(ctx, o.Normalize())
}

func (r *Repo) Update(ctx context.Context, id string, o Output) (Doc, error) {
	if err := o.Validate(); err != nil {
		return Doc{}, err
	}
	return r.docs.Update(ctx, id, o.Normalize())
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

func (r *Repo) forOrder(ctx context.Context, k order.Key) ([]Output, error) {
	docs, err := r.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []Output{}
	for _, d := range docs {
		if d.Data.Key == k {
			out = append(out, d.Data)
		}
	}
	return out, nil
}
