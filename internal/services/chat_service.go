package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/taskhub/taskhub/internal/models"
)

const createTaskToolName = "create_task"

var (
	ErrChatNotConfigured = errors.New("chat service is not configured")
	ErrEmptyMessage      = errors.New("message is required")
	ErrNoChatResponse    = errors.New("no response from chat model")
)

// ChatService proxies user messages to an OpenAI-compatible chat API.
// The model sees a snapshot of the account's tasks and notes and may call
// exactly one recognized tool per turn: create_task.
type ChatService struct {
	client *openai.Client
	model  string
}

// NewChatService creates a new ChatService against an OpenAI-compatible
// endpoint (Groq in the default configuration).
func NewChatService(apiKey, baseURL, model string) *ChatService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &ChatService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// CreateTaskCommand is the single command the assistant may request. The
// argument schema is closed: anything beyond these fields is ignored and a
// missing title rejects the call.
type CreateTaskCommand struct {
	Title       string
	Description string
	Category    string
	DueDate     *time.Time
}

// ChatResult is either a plain reply or a validated create_task command.
type ChatResult struct {
	Reply      string
	CreateTask *CreateTaskCommand
}

// Converse sends the user message plus a data snapshot to the chat model and
// returns its reply or a create_task command to execute.
func (s *ChatService) Converse(ctx context.Context, message string, tasks []models.Task, notes []models.Note) (*ChatResult, error) {
	if s == nil || s.client == nil {
		return nil, ErrChatNotConfigured
	}
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: buildSystemPrompt(tasks, notes),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: message,
			},
		},
		Tools: []openai.Tool{
			{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        createTaskToolName,
					Description: "Create a new task for the user",
					Parameters: jsonschema.Definition{
						Type: jsonschema.Object,
						Properties: map[string]jsonschema.Definition{
							"title": {
								Type:        jsonschema.String,
								Description: "The task title",
							},
							"description": {
								Type:        jsonschema.String,
								Description: "Task description (optional)",
							},
							"category": {
								Type:        jsonschema.String,
								Description: "Category: work, personal, shopping, or other",
							},
							"dueDate": {
								Type:        jsonschema.String,
								Description: "Due date in YYYY-MM-DD format (optional)",
							},
						},
						Required: []string{"title"},
					},
				},
			},
		},
		ToolChoice: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("chat API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrNoChatResponse
	}

	msg := resp.Choices[0].Message

	// Only the first recognized tool call is honored; one command per turn.
	for _, call := range msg.ToolCalls {
		if call.Function.Name != createTaskToolName {
			continue
		}
		cmd, err := ParseCreateTaskArgs(call.Function.Arguments)
		if err != nil {
			return nil, fmt.Errorf("invalid %s arguments: %w", createTaskToolName, err)
		}
		return &ChatResult{CreateTask: cmd}, nil
	}

	return &ChatResult{Reply: msg.Content}, nil
}

// ParseCreateTaskArgs validates the raw tool-call arguments against the
// closed create_task schema.
func ParseCreateTaskArgs(arguments string) (*CreateTaskCommand, error) {
	var raw struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		DueDate     string `json:"dueDate"`
	}
	if err := json.Unmarshal([]byte(arguments), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}

	if strings.TrimSpace(raw.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	cmd := &CreateTaskCommand{
		Title:       strings.TrimSpace(raw.Title),
		Description: raw.Description,
		Category:    raw.Category,
	}
	if cmd.Category == "" {
		cmd.Category = "other"
	}

	if raw.DueDate != "" {
		due, err := time.Parse("2006-01-02", raw.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid dueDate %q: %w", raw.DueDate, err)
		}
		cmd.DueDate = &due
	}

	return cmd, nil
}

func buildSystemPrompt(tasks []models.Task, notes []models.Note) string {
	return fmt.Sprintf(`You are TaskHub AI Assistant with task management capabilities.

Current user data:
===== TASKS =====
%s

===== NOTES =====
%s

You can:
1. View and analyze the user's tasks and notes
2. Create new tasks when the user asks (use the create_task function)
3. Help with planning and productivity

When the user wants to add/create a task, use the create_task function.`,
		taskSummary(tasks), noteSummary(notes))
}

func taskSummary(tasks []models.Task) string {
	if len(tasks) == 0 {
		return "No tasks found."
	}

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		category := t.Category
		if category == "" {
			category = "None"
		}
		due := "No due date"
		if t.DueDate != nil {
			due = t.DueDate.Format("Mon Jan 2 2006")
		}
		lines = append(lines, fmt.Sprintf("- %s (Category: %s, Completed: %t, Due: %s)",
			t.Title, category, t.Completed, due))
	}
	return strings.Join(lines, "\n")
}

func noteSummary(notes []models.Note) string {
	if len(notes) == 0 {
		return "No notes found."
	}

	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, fmt.Sprintf("- %s: %s (Progress: %d%%)", n.Title, n.Content, n.Progress))
	}
	return strings.Join(lines, "\n")
}
