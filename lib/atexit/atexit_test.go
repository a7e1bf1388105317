//go:build !plan9
// +build !plan9

package atexit

import (
	"runtime"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "plan9" {
		t.Skip("signal exit codes are unix only")
	}
	assert.Equal(t, 130, exitCode(syscall.SIGINT))
	assert.Equal(t, 143, exitCode(syscall.SIGTERM))
	assert.Equal(t, 1, exitCode(syscall.Signal(0)))
}

func TestRegisterUnregisterRun(t *testing.T) {
	var calledA, calledB int
	handleA := Register(func() { calledA++ })
	handleB := Register(func() { calledB++ })
	var handleC FnHandle
	calledC := 0
	handleC = Register(func() {
		calledC++
		Unregister(handleC)
	})
	assert.NotNil(t, handleA)
	Unregister(handleB)

	Run()
	assert.Equal(t, 1, calledA)
	assert.Equal(t, 0, calledB)
	assert.Equal(t, 1, calledC)

	// Run only runs the functions once
	Run()
	assert.Equal(t, 1, calledA)
	assert.False(t, Signalled())
	Unregister(handleA)
}
