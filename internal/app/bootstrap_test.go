package app

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubRunner struct {
	err  error
	runs int
}

func (s *stubRunner) Run() error {
	s.runs++
	return s.err
}

func captureDiagnostics(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := diagnostics
	diagnostics = &buf
	t.Cleanup(func() { diagnostics = previous })
	return &buf
}

func TestLaunchBuildFailureExits(t *testing.T) {
	out := captureDiagnostics(t)

	var codes []int
	Launch(func() (Runner, error) {
		return nil, errors.New("database: disk full")
	}, nil, func(code int) { codes = append(codes, code) })

	assert.Equal(t, []int{1}, codes)
	assert.Equal(t, "error while running kronosphere application: database: disk full\n", out.String())
}

func TestLaunchRunFailureExits(t *testing.T) {
	out := captureDiagnostics(t)
	runner := &stubRunner{err: errors.New("event loop failed")}

	var codes []int
	Launch(func() (Runner, error) { return runner, nil }, nil, func(code int) { codes = append(codes, code) })

	assert.Equal(t, 1, runner.runs)
	assert.Equal(t, []int{1}, codes)
	assert.Contains(t, out.String(), StartupFailure)
}

func TestLaunchSuccessDoesNotExit(t *testing.T) {
	out := captureDiagnostics(t)
	runner := &stubRunner{}

	exited := false
	Launch(func() (Runner, error) { return runner, nil }, nil, func(int) { exited = true })

	assert.Equal(t, 1, runner.runs)
	assert.False(t, exited)
	assert.Empty(t, out.String())
}
