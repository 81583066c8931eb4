package milestone

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

// Assembler builds report rows from finalized entities.
type Assembler struct {
	calc   *Calculator
	policy ports.SelectionPolicy
}

func NewAssembler(calc *Calculator, policy ports.SelectionPolicy) *Assembler {
	return &Assembler{calc: calc, policy: policy}
}

func (a *Assembler) Names() []domain.MilestoneName { return a.calc.Names() }

// Assemble computes every milestone of e. Entities without a publish instant
// or without snapshots yield a row whose milestones are all absent.
func (a *Assembler) Assemble(e *domain.Entity) domain.ReportRow {
	row := domain.ReportRow{
		EntityID: e.ID,
		Label:    e.Label,
	}
	if e.HasPublished {
		row.PublishedAt = e.PublishedAt.UTC()
		row.HasPublished = true
		row.PublishedDate = CivilDate(e.PublishedAt, a.calc.Location())
	}

	if !e.HasPublished || len(e.Snapshots) == 0 {
		names := a.calc.Names()
		row.Milestones = make([]domain.MilestoneCell, len(names))
		for i, n := range names {
			row.Milestones[i] = domain.MilestoneCell{Name: n}
		}
		return row
	}

	targets := a.calc.Targets(e.PublishedAt)
	row.Milestones = make([]domain.MilestoneCell, len(targets))
	for i, t := range targets {
		row.Milestones[i] = domain.MilestoneCell{
			Name:   t.Name,
			Result: Pick(e.Snapshots, t.At, a.policy),
		}
	}
	return row
}

// AssembleAll assembles every entity, fanning out over at most workers
// goroutines. Rows keep the order of entities regardless of workers. done,
// when set, is called once per row and must be safe for concurrent use.
func (a *Assembler) AssembleAll(ctx context.Context, entities []*domain.Entity, workers int, done func(domain.ReportRow)) ([]domain.ReportRow, error) {
	rows := make([]domain.ReportRow, len(entities))
	if workers <= 1 {
		for i, e := range entities {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rows[i] = a.Assemble(e)
			if done != nil {
				done(rows[i])
			}
		}
		return rows, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range entities {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = a.Assemble(e)
			if done != nil {
				done(rows[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
