package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qopher/qopher/state"
)

func TestSnapshot_Canonical(t *testing.T) {
	s := &Scenario{Name: "demo", Circuit: "bell"}
	result := &Result{
		Trials:    2,
		Counts:    map[string]int{"11": 1, "00": 1},
		Memory:    state.Memory{"m1": 1, "m0": 1},
		FinalNorm: 1,
	}

	want := "scenario: demo\n" +
		"circuit: bell\n" +
		"trials: 2\n" +
		"counts:\n" +
		"  00: 1\n" +
		"  11: 1\n" +
		"memory:\n" +
		"  m0: 1\n" +
		"  m1: 1\n" +
		"norm: 1.00000000\n"
	assert.Equal(t, want, string(Snapshot(s, result)), "counts and memory render sorted")
}

func TestRunWithGolden_BellScripted(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/bell_scripted.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "errors: %v", result.Errors)
}
