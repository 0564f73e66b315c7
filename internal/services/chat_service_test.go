package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskhub/taskhub/internal/models"
)

func TestParseCreateTaskArgs(t *testing.T) {
	cmd, err := ParseCreateTaskArgs(`{"title":"Buy milk","description":"2 liters","category":"shopping","dueDate":"2024-02-01"}`)
	require.NoError(t, err)
	require.Equal(t, "Buy milk", cmd.Title)
	require.Equal(t, "2 liters", cmd.Description)
	require.Equal(t, "shopping", cmd.Category)
	require.NotNil(t, cmd.DueDate)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *cmd.DueDate)
}

func TestParseCreateTaskArgs_TitleRequired(t *testing.T) {
	_, err := ParseCreateTaskArgs(`{"description":"no title"}`)
	require.Error(t, err)

	_, err = ParseCreateTaskArgs(`{"title":"   "}`)
	require.Error(t, err)
}

func TestParseCreateTaskArgs_DefaultsCategory(t *testing.T) {
	cmd, err := ParseCreateTaskArgs(`{"title":"Plain"}`)
	require.NoError(t, err)
	require.Equal(t, "other", cmd.Category)
	require.Nil(t, cmd.DueDate)
}

func TestParseCreateTaskArgs_InvalidInput(t *testing.T) {
	_, err := ParseCreateTaskArgs(`{"title":"Bad date","dueDate":"tomorrow"}`)
	require.Error(t, err)

	_, err = ParseCreateTaskArgs(`not json`)
	require.Error(t, err)
}

func TestBuildSystemPrompt_Snapshot(t *testing.T) {
	due := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{Title: "Pay rent", Category: "personal", DueDate: &due},
		{Title: "Untagged", Completed: true},
	}
	notes := []models.Note{
		{Title: "Thesis", Content: "Write the intro", Progress: 40},
	}

	prompt := buildSystemPrompt(tasks, notes)
	require.Contains(t, prompt, "Pay rent (Category: personal, Completed: false")
	require.Contains(t, prompt, "Untagged (Category: None, Completed: true, Due: No due date)")
	require.Contains(t, prompt, "Thesis: Write the intro (Progress: 40%)")
}

func TestBuildSystemPrompt_EmptySnapshot(t *testing.T) {
	prompt := buildSystemPrompt(nil, nil)
	require.Contains(t, prompt, "No tasks found.")
	require.Contains(t, prompt, "No notes found.")
}
