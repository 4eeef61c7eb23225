package production

import (
	"context"
	"fmt"

	"github.com/Spok95/linetrack/internal/docstore"
)

// CollectionName is where hourly production sections are stored.
const CollectionName = "hourlyProductions"

type Doc = docstore.Doc[Section]

type Repo struct {
	docs docstore.Collection[Section]
}

func NewRepo(docs docstore.Collection[Section]) *Repo { return &Repo{docs: docs} }

// CreateBatch stores freshly entered sections together, as one submission.
func (r *Repo) CreateBatch(ctx context.Context, sections []Section) ([]Doc, error) {
	for i, s := range sections {
		if err := s.ValidateLayout(); err != nil {
			return nil, fmt.Errorf("section %d: %w", i+1, err)
		}
	}
	fresh, err := RecomputeBatch(ctx, sections)
	if err != nil {
		return nil, err
	}
	return r.docs.AddBatch(ctx, fresh)
}

// Save overwrites one stored section after recomputing it.
func (r *Repo) Save(ctx context.Context, id string, s Section) (Doc, error) {
	if err := s.ValidateLayout(); err != nil {
		return Doc{}, err
	}
	return r.docs.Update(ctx, id, Recompute(s))
}

// Get loads a stored section verbatim; derived fields are as persisted.
func (r *Repo) Get(ctx context.Context, id string) (Doc, error) {
	doc, err := r.docs.Get(ctx, id)
	if err != nil {
		return Doc{}, err
	}
	if err := doc.Data.ValidateLayout(); err != nil {
		return Doc{}, fmt.Errorf("section %s: %w", id, err)
	}
	return doc, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}

func (r *Repo) List(ctx context.Context) ([]Doc, error) {
	return r.docs.List(ctx)
}

func (r *Repo) ListByDate(ctx context.Context, date string) ([]Doc, error) {
	return r.docs.Find(ctx, "date", date)
}

// FindBySlNo resolves the serial number operators see in reports.
func (r *Repo) FindBySlNo(ctx context.Context, slNo int) (Doc, error) {
	docs, err := r.docs.List(ctx)
	if err != nil {
		return Doc{}, err
	}
	for _, d := range docs {
		if d.SlNo == slNo {
			return d, nil
		}
	}
	return Doc{}, docstore.ErrNotFound
}
