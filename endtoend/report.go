package endtoend

import "fmt"
import "time"

import "github.com/jedib0t/go-pretty/v6/table"
import "github.com/jedib0t/go-pretty/v6/text"
import "github.com/pkg/errors"

import "github.com/neurlang/endtoend/trainer"

// Split is the evaluation of a model on one part of the data
type Split struct {
	Name string
	Eval trainer.Evaluation
}

// printResults renders the splits of a scenario as a table and records their accuracy
func (e *Env) printResults(scenario string, d time.Duration, threshold float64, splits ...Split) {
	for _, s := range splits {
		e.Metrics.RecordAccuracy(scenario, s.Name, s.Eval.Accuracy())
	}
	if e.Out == nil {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(e.Out)
	t.SetTitle(fmt.Sprintf("%s (%s)", scenario, d.Round(time.Millisecond)))
	t.AppendHeader(table.Row{"Split", "Samples", "Correct", "Accuracy", "Threshold"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Samples", Align: text.AlignRight},
		{Name: "Correct", Align: text.AlignRight},
		{Name: "Accuracy", Align: text.AlignRight},
		{Name: "Threshold", Align: text.AlignRight},
	})
	for i, s := range splits {
		th := "-"
		if i == 0 {
			th = fmt.Sprintf("%.3f", threshold)
		}
		t.AppendRow(table.Row{s.Name, s.Eval.Total, s.Eval.Correct, fmt.Sprintf("%.3f", s.Eval.Accuracy()), th})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// check fails when the training accuracy is below the threshold
func check(scenario string, threshold float64, train trainer.Evaluation) error {
	if train.Accuracy() < threshold {
		return errors.Errorf("%s: training accuracy %.3f below threshold %.3f", scenario, train.Accuracy(), threshold)
	}
	return nil
}
