package scenarios

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/matchcast/app"
	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/core/publish"
	"github.com/kilianp07/matchcast/infra/dataset"
	"github.com/kilianp07/matchcast/infra/logger"
	"github.com/kilianp07/matchcast/infra/metrics"
)

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	pub := &publish.MockPublisher{}
	svc := app.NewWithDeps(app.Deps{
		Source:    dataset.NewFileSource(sc.Dataset),
		Sink:      sink,
		Publisher: pub,
		Log:       logger.NopLogger{},
		Engine:    sc.Engine.ToConfig(),
	})

	published := 0
	for i, m := range sc.Matches {
		if err := runMatch(context.Background(), svc, m); err != nil {
			t.Errorf("scenario %s match %d: %v", sc.Name, i+1, err)
			continue
		}
		if m.Expected.Error == "" {
			published++
		}
	}
	if err := svc.Close(); err != nil {
		t.Errorf("close: %v", err)
	}

	if got := len(pub.Reports()); got != published {
		t.Errorf("scenario %s expected %d published reports, got %d", sc.Name, published, got)
	}
	want := fmt.Sprintf(`
# HELP matchcast_dataset_loads_total Dataset loads by source and result
# TYPE matchcast_dataset_loads_total counter
matchcast_dataset_loads_total{result="ok",source="file"} %d
`, len(sc.Matches))
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "matchcast_dataset_loads_total"); err != nil {
		t.Errorf("scenario %s loads: %v", sc.Name, err)
	}
}

func runMatch(ctx context.Context, svc *app.Service, m MatchDef) error {
	red, err := roster(m.Red)
	if err != nil {
		return fmt.Errorf("red: %w", err)
	}
	blue, err := roster(m.Blue)
	if err != nil {
		return fmt.Errorf("blue: %w", err)
	}
	rep, err := svc.Predict(ctx, red, blue)
	exp := m.Expected
	if exp.Error != "" {
		if err == nil || !strings.Contains(err.Error(), exp.Error) {
			return fmt.Errorf("expected error containing %q, got %v", exp.Error, err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	return check(rep, exp)
}

func check(rep model.Report, exp Expected) error {
	if exp.AutoWinner != "" && rep.Winner != exp.AutoWinner {
		return fmt.Errorf("auto winner %s, want %s", rep.Winner, exp.AutoWinner)
	}
	if exp.Favourite != "" && favourite(rep) != exp.Favourite {
		return fmt.Errorf("favourite %s (%.1f/%.1f), want %s", favourite(rep), rep.Red.WinPct, rep.Blue.WinPct, exp.Favourite)
	}
	if exp.RedTotal != nil && rep.Red.Total != exp.RedTotal.ToModel() {
		return fmt.Errorf("red total %+v, want %+v", rep.Red.Total, *exp.RedTotal)
	}
	if exp.BlueTotal != nil && rep.Blue.Total != exp.BlueTotal.ToModel() {
		return fmt.Errorf("blue total %+v, want %+v", rep.Blue.Total, *exp.BlueTotal)
	}
	if exp.RedWinPct != nil && rep.Red.WinPct != *exp.RedWinPct {
		return fmt.Errorf("red win %.1f, want %.1f", rep.Red.WinPct, *exp.RedWinPct)
	}
	if exp.BlueWinPct != nil && rep.Blue.WinPct != *exp.BlueWinPct {
		return fmt.Errorf("blue win %.1f, want %.1f", rep.Blue.WinPct, *exp.BlueWinPct)
	}
	return nil
}

func favourite(rep model.Report) string {
	switch {
	case rep.Red.WinPct > rep.Blue.WinPct:
		return model.Red.String()
	case rep.Blue.WinPct > rep.Red.WinPct:
		return model.Blue.String()
	default:
		return "Even"
	}
}
