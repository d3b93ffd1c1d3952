package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatus_Valid(t *testing.T) {
	assert.True(t, TaskStatusTodo.Valid())
	assert.True(t, TaskStatusInProgress.Valid())
	assert.True(t, TaskStatusDone.Valid())
	assert.False(t, TaskStatus("TODO").Valid())
	assert.False(t, TaskStatus("").Valid())
}

func TestTaskPriority_Valid(t *testing.T) {
	assert.True(t, TaskPriorityHigh.Valid())
	assert.False(t, TaskPriority("urgent").Valid())
}
