package metrics

import "os"
import "path/filepath"
import "testing"
import "time"

import "github.com/prometheus/client_golang/prometheus/testutil"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestRecord(t *testing.T) {
	m := New("cpu", "job")
	m.RecordScenario("MNISTClassifier", true, time.Second)
	m.RecordScenario("MNISTClassifier", false, time.Second)
	m.RecordScenario("MNISTClassifier", true, time.Second)
	m.RecordAccuracy("MNISTClassifier", "train", 0.5)
	m.RecordTrained("MNISTClassifier", 3)
	m.RecordCollective("all_gather")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.scenariosTotal.WithLabelValues("MNISTClassifier", "pass")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scenariosTotal.WithLabelValues("MNISTClassifier", "fail")))
	assert.Equal(t, 0.5, testutil.ToFloat64(m.accuracy.WithLabelValues("MNISTClassifier", "train")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.trainedTotal.WithLabelValues("MNISTClassifier")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.collectives))
}

func TestWriteTextfile(t *testing.T) {
	m := New("cpu", "job")
	m.RecordAccuracy("LSTMSequenceClassifier", "train", 1)
	path := filepath.Join(t.TempDir(), "e2e.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `endtoend_accuracy_ratio{build="cpu",job_id="job",scenario="LSTMSequenceClassifier",split="train"} 1`)
	assert.NoError(t, m.WriteTextfile(""))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.RecordScenario("x", true, 0)
	m.RecordAccuracy("x", "train", 1)
	m.RecordTrained("x", 1)
	m.RecordCollective("barrier")
	assert.NoError(t, m.WriteTextfile("ignored"))
	assert.NotNil(t, m.Registry())
}
