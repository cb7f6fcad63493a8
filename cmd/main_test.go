package main

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestExitError(t *testing.T) {
	assert.NoError(t, exitError(nil))
	assert.NoError(t, exitError(tea.ErrProgramKilled))
	assert.NoError(t, exitError(fmt.Errorf("run: %w", tea.ErrProgramKilled)))

	boom := errors.New("boom")
	err := exitError(boom)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "error running application")
}
