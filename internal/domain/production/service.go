package production

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Metrics receives the outcome of every persisted recomputation.
type Metrics interface {
	ObserveSection(s Section)
	ObserveDrift(fields int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveSection(Section) {}
func (noopMetrics) ObserveDrift(int)       {}

type Service struct {
	repo    *Repo
	log     *slog.Logger
	metrics Metrics
}

func NewService(repo *Repo, log *slog.Logger, m Metrics) *Service {
	if m == nil {
		m = noopMetrics{}
	}
	return &Service{repo: repo, log: log.With("component", "production"), metrics: m}
}

func (s *Service) Create(ctx context.Context, sections []Section) ([]Doc, error) {
	docs, err := s.repo.CreateBatch(ctx, sections)
	if err != nil {
		return nil, fmt.Errorf("create sections: %w", err)
	}
	for _, d := range docs {
		s.metrics.ObserveSection(d.Data)
		s.log.Info("section created", "id", d.ID, "sl_no", d.SlNo, "line", d.Data.LineNumber, "date", d.Data.Date)
	}
	return docs, nil
}

func (s *Service) Get(ctx context.Context, id string) (Doc, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) FindBySlNo(ctx context.Context, slNo int) (Doc, error) {
	return s.repo.FindBySlNo(ctx, slNo)
}

func (s *Service) ListByDate(ctx context.Context, date string) ([]Doc, error) {
	return s.repo.ListByDate(ctx, date)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("section deleted", "id", id)
	return nil
}

// Edit loads a section, applies one edit operation and stores the
// recomputed result.
func (s *Service) Edit(ctx context.Context, id string, edit func(Section) (Section, error)) (Doc, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return Doc{}, err
	}
	next, err := edit(doc.Data)
	if err != nil {
		return Doc{}, err
	}
	saved, err := s.repo.Save(ctx, id, next)
	if err != nil {
		return Doc{}, fmt.Errorf("save section %s: %w", id, err)
	}
	s.metrics.ObserveSection(saved.Data)
	s.log.Debug("section updated", "id", id, "total_output", saved.Data.TotalOutput,
		"efficiency", saved.Data.Efficiency.StringFixed(2))
	return saved, nil
}

func (s *Service) SetDailyTarget(ctx context.Context, id string, target int) (Doc, error) {
	return s.Edit(ctx, id, func(sec Section) (Section, error) { return sec.WithDailyTarget(target), nil })
}

func (s *Service) SetSMV(ctx context.Context, id string, smv decimal.Decimal) (Doc, error) {
	return s.Edit(ctx, id, func(sec Section) (Section, error) { return sec.WithSMV(smv), nil })
}

func (s *Service) SetObserved(ctx context.Context, id string, p Process, hour, count int) (Doc, error) {
	return s.Edit(ctx, id, func(sec Section) (Section, error) { return sec.WithObserved(p, hour, count) })
}

func (s *Service) SetObservations(ctx context.Context, id string, obs []Observation) (Doc, error) {
	return s.Edit(ctx, id, func(sec Section) (Section, error) { return sec.WithObservations(obs) })
}

func (s *Service) AddManpower(ctx context.Context, id string, manpower int, hours decimal.Decimal) (Doc, error) {
	return s.Edit(ctx, id, func(sec Section) (Section, error) {
		next, _ := sec.AddManpower(manpower, hours)
		return next, nil
	})
}

func (s *Service) UpdateManpower(ctx context.Context, id, entryID string, manpower int, hours decimal.Decimal) (Doc, error) {
	return s.Edit(ctx, id, func(sec Section) (Section, error) { return sec.UpdateManpower(entryID, manpower, hours) })
}

func (s *Service) RemoveManpower(ctx context.Context, id, entryID string) (Doc, error) {
	return s.Edit(ctx, id, func(sec Section) (Section, error) { return sec.RemoveManpower(entryID) })
}

type DriftEntry struct {
	ID     string
	SlNo   int
	Fields []string
}

type VerifyReport struct {
	Checked   int
	Malformed []string
	Drifted   []DriftEntry
	Repaired  int
}

// Verify recomputes every stored section and reports derived fields that
// disagree with their raw inputs. With repair set, drifted sections are
// rewritten with the recomputed values.
func (s *Service) Verify(ctx context.Context, repair bool) (VerifyReport, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return VerifyReport{}, fmt.Errorf("list sections: %w", err)
	}
	stored := make([]Section, len(docs))
	for i, d := range docs {
		stored[i] = d.Data
	}
	fresh, err := RecomputeBatch(ctx, stored)
	if err != nil {
		return VerifyReport{}, err
	}

	rep := VerifyReport{Checked: len(docs)}
	for i, d := range docs {
		if err := d.Data.ValidateLayout(); err != nil {
			rep.Malformed = append(rep.Malformed, d.ID)
			s.log.Warn("malformed section", "id", d.ID, "sl_no", d.SlNo, "err", err)
			continue
		}
		fields := diffDerived(stored[i], fresh[i])
		if len(fields) == 0 {
			continue
		}
		rep.Drifted = append(rep.Drifted, DriftEntry{ID: d.ID, SlNo: d.SlNo, Fields: fields})
		s.metrics.ObserveDrift(len(fields))
		s.log.Warn("derived fields drifted", "id", d.ID, "sl_no", d.SlNo, "fields", fields)
		if !repair {
			continue
		}
		if _, err := s.repo.Save(ctx, d.ID, fresh[i]); err != nil {
			return rep, fmt.Errorf("repair section %s: %w", d.ID, err)
		}
		rep.Repaired++
	}
	return rep, nil
}
