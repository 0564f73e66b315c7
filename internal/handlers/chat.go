package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskhub/taskhub/internal/errors"
	"github.com/taskhub/taskhub/internal/middleware"
	"github.com/taskhub/taskhub/internal/services"
)

// ChatHandler proxies assistant conversations. chatService is nil when no
// API key is configured; the endpoint then degrades to 503 instead of
// taking the process down.
type ChatHandler struct {
	chatService *services.ChatService
	taskService *services.TaskService
	noteService *services.NoteService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *services.ChatService, taskService *services.TaskService, noteService *services.NoteService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		taskService: taskService,
		noteService: noteService,
	}
}

// Chat forwards the user message plus a snapshot of their tasks and notes to
// the assistant. If the model requests the create_task command, the task is
// created synchronously before replying.
func (h *ChatHandler) Chat(c *gin.Context) {
	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if h.chatService == nil {
		apierrors.ServiceUnavailable(c, "Assistant is not configured")
		return
	}

	type ChatRequest struct {
		Message string `json:"message" binding:"required"`
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Message is required")
		return
	}

	tasks, err := h.taskService.ListAllTasks(accountID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load tasks")
		return
	}
	notes, err := h.noteService.ListNotes(accountID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load notes")
		return
	}

	result, err := h.chatService.Converse(c.Request.Context(), req.Message, tasks, notes)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		log.Printf("chat: %v", err)
		apierrors.InternalError(c, "Something went wrong")
		return
	}

	if result.CreateTask != nil {
		cmd := result.CreateTask
		task, err := h.taskService.CreateTask(services.CreateTaskInput{
			AccountID:   accountID,
			Title:       cmd.Title,
			Description: cmd.Description,
			Category:    cmd.Category,
			DueDate:     cmd.DueDate,
		})
		if err != nil {
			log.Printf("chat: create task: %v", err)
			apierrors.InternalError(c, "Failed to create task")
			return
		}

		c.JSON(http.StatusOK, gin.H{"reply": createTaskConfirmation(task.Title, cmd)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": result.Reply})
}

func createTaskConfirmation(title string, cmd *services.CreateTaskCommand) string {
	var sb strings.Builder
	sb.WriteString("Task created successfully!\n\n")
	sb.WriteString(fmt.Sprintf("**%s**\n", title))
	if cmd.Description != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", cmd.Description))
	}
	if cmd.Category != "" {
		sb.WriteString(fmt.Sprintf("Category: %s\n", cmd.Category))
	}
	if cmd.DueDate != nil {
		sb.WriteString(fmt.Sprintf("Due: %s\n", cmd.DueDate.Format("2006-01-02")))
	}
	sb.WriteString("\nYou can view it in your task list!")
	return sb.String()
}
