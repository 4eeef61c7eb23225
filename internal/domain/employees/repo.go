package employees

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Spok95/linetrack/internal/docstore"
)

const CollectionName = "employees"

type Doc = docstore.Doc[Employee]

type Repo struct {
	docs docstore.Collection[Employee]
}

func NewRepo(docs docstore.Collection[Employee]) *Repo { return &Repo{docs: docs} }

func (r *Repo) Create(ctx context.Context, e Employee) (Doc, error) {
	if err := e.Validate(); err != nil {
		return Doc{}, err
	}
	if existing, err := r.FindByEmployeeID(ctx, e.EmployeeID); err == nil {
		return Doc{}, fmt.Errorf("employee %s already registered as #%d", e.EmployeeID, existing.SlNo)
	}
	return r.docs.Add(ctx, withSkillIDs(e))
}

func (r *Repo) Update(ctx context.Context, id string, e Employee) (Doc, error) {
	if err := e.Validate(); err != nil {
		return Doc{}, err
	}
	return r.docs.Update(ctx, id, withSkillIDs(e))
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}

func (r *Repo) Get(ctx context.Context, id string) (Doc, error) {
	return r.docs.Get(ctx, id)
}

func (r *Repo) List(ctx context.Context) ([]Doc, error) {
	return r.docs.List(ctx)
}

// FindByEmployeeID looks up the factory ID printed on the employee's card.
func (r *Repo) FindByEmployeeID(ctx context.Context, employeeID string) (Doc, error) {
	docs, err := r.docs.Find(ctx, "employeeId", employeeID)
	if err != nil {
		return Doc{}, err
	}
	if len(docs) == 0 {
		return Doc{}, docstore.ErrNotFound
	}
	return docs[0], nil
}

func (r *Repo) Search(ctx context.Context, q string) ([]Doc, error) {
	docs, err := r.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []Doc{}
	for _, d := range docs {
		if d.Data.Matches(q) {
			out = append(out, d)
		}
	}
	return out, nil
}

func withSkillIDs(e Employee) Employee {
	skills := make([]Skill, len(e.Skills))
	copy(skills, e.Skills)
	for i := range skills {
		if skills[i].ID == "" {
			skills[i].ID = uuid.NewString()
		}
	}
	e.Skills = skills
	return e
}
