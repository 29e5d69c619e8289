package device

import "testing"

import "github.com/stretchr/testify/assert"

func TestSelector(t *testing.T) {
	for _, tc := range []struct {
		sel      Selector
		cpu, gpu bool
	}{
		{Selector{}, true, false},
		{Selector{GPUBuild: true}, true, false},
		{Selector{GPUBuild: true, GPUs: 1}, true, true},
		{Selector{Restrict: "cpu", GPUBuild: true, GPUs: 1}, true, false},
		{Selector{Restrict: "GPU", GPUBuild: true, GPUs: 2}, false, true},
		{Selector{Restrict: "gpu"}, false, false},
		{Selector{Restrict: "tpu", GPUBuild: true, GPUs: 1}, false, false},
	} {
		assert.Equal(t, tc.cpu, tc.sel.ShouldRunOnCpu(), "%+v", tc.sel)
		assert.Equal(t, tc.gpu, tc.sel.ShouldRunOnGpu(), "%+v", tc.sel)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvTestDevice, "cpu")
	assert.True(t, ShouldRunOnCpu())
	assert.False(t, ShouldRunOnGpu())
	assert.Equal(t, "cpu", FromEnv().Restrict)
}

func TestHost(t *testing.T) {
	all := All()
	assert.NotEmpty(t, all)
	assert.Equal(t, CPU, all[0].Kind)
	assert.Equal(t, len(GPUs())+1, len(all))
	assert.Contains(t, all[0].String(), "cpu:0")
}
