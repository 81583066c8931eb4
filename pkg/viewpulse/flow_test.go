package viewpulse

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfFromConfigAndFlowBuilder(t *testing.T) {
	cfg := testConfig(t)

	flow, err := ConfFromConfig(cfg, WithFlowOptions(WithObservability(&stubObservability{})))
	if err != nil {
		t.Fatalf("ConfFromConfig returned error: %v", err)
	}
	if flow.Config() != cfg {
		t.Fatalf("expected Config to be returned verbatim")
	}

	var got []ReportRow
	res, err := flow.
		From(&sliceSource{rows: []RawRow{
			{EntityID: "a", PublishedAt: "2024-01-15T00:00:00Z", RunAt: "2024-01-15T12:00:00Z", Value: "5"},
			{EntityID: "b"},
		}}).
		ToCallback("collect", func(_ []MilestoneName, rows []ReportRow) error {
			got = rows
			return nil
		}).
		Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if len(got) != 2 || got[0].EntityID != "a" || got[1].EntityID != "b" {
		t.Fatalf("unexpected rows %+v", got)
	}
	if res.RowsRead != 2 {
		t.Fatalf("expected 2 rows read, got %d", res.RowsRead)
	}
}

func TestConfLoadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewpulse.yaml")
	data := "milestones:\n  policy: tolerance\n  tolerance: 6h\nreport:\n  kind: table\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	flow, err := Conf(path)
	if err != nil {
		t.Fatalf("Conf returned error: %v", err)
	}
	if flow.Config().Milestones.Mode != ModeTolerance {
		t.Fatalf("expected tolerance mode, got %s", flow.Config().Milestones.Mode)
	}
}

func TestFlowRejectsNilEnds(t *testing.T) {
	cfg := testConfig(t)

	flow, _ := ConfFromConfig(cfg)
	if _, err := flow.From(nil).Compute(context.Background()); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}

	flow, _ = ConfFromConfig(cfg)
	if _, err := flow.To(nil).Compute(context.Background()); !errors.Is(err, ErrNoSink) {
		t.Fatalf("expected ErrNoSink, got %v", err)
	}

	if _, err := ConfFromConfig(nil); err == nil {
		t.Fatal("expected nil config to be rejected")
	}
}

type sliceSource struct {
	rows []RawRow
}

func (s *sliceSource) Name() string { return "slice" }
func (s *sliceSource) Rows(_ context.Context, fn func(RawRow) error) error {
	for _, r := range s.rows {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
