package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/taskhub/taskhub/internal/mailer"
	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repository"
)

// ReminderService scans for tasks entering their reminder window and emails
// the owning account. The reminder_sent flag in the store is the sole
// de-duplication key, so a task is notified at most once even across
// restarts and concurrent instances.
type ReminderService struct {
	taskRepo    repository.TaskRepository
	mail        mailer.Mailer
	sendTimeout time.Duration
	now         func() time.Time

	mu sync.Mutex
}

// NewReminderService creates a new ReminderService.
func NewReminderService(taskRepo repository.TaskRepository, mail mailer.Mailer) *ReminderService {
	return &ReminderService{
		taskRepo:    taskRepo,
		mail:        mail,
		sendTimeout: 15 * time.Second,
		now:         time.Now,
	}
}

// Sweep runs one pass over due reminders. A failure on one task never aborts
// the rest; the sweep reports how many reminders were delivered.
func (s *ReminderService) Sweep(ctx context.Context) (int, error) {
	// Overlapping ticks in this process skip instead of stacking.
	if !s.mu.TryLock() {
		log.Println("reminder sweep still running, skipping tick")
		return 0, nil
	}
	defer s.mu.Unlock()

	now := s.now()

	tasks, err := s.taskRepo.ListReminderCandidates()
	if err != nil {
		return 0, fmt.Errorf("failed to list reminder candidates: %w", err)
	}

	sent := 0
	for _, task := range tasks {
		if !s.due(task, now) {
			continue
		}
		if task.Account.Email == "" {
			// Owner record is missing or incomplete; leave the task
			// unmarked so it is retried once the account is fixed.
			continue
		}

		if err := s.deliver(ctx, task); err != nil {
			log.Printf("reminder for task %d: send failed: %v", task.ID, err)
			continue
		}

		claimed, err := s.taskRepo.MarkReminderSent(task.ID)
		if err != nil {
			log.Printf("reminder for task %d: mark sent failed: %v", task.ID, err)
			continue
		}
		if !claimed {
			log.Printf("reminder for task %d: already marked by a concurrent sweep", task.ID)
			continue
		}
		sent++
	}

	return sent, nil
}

// due reports whether now has entered the task's reminder window.
func (s *ReminderService) due(task models.Task, now time.Time) bool {
	remindAt := task.RemindAt()
	if remindAt == nil {
		return false
	}
	return !now.Before(*remindAt)
}

func (s *ReminderService) deliver(ctx context.Context, task models.Task) error {
	subject := fmt.Sprintf("Reminder: %s", task.Title)
	body := fmt.Sprintf(
		"<h2>Task Reminder</h2><p>Your task <b>%s</b> is due soon!</p><p>Due at: %s</p>",
		task.Title, task.DueDate.Format("Mon, 02 Jan 2006 15:04"),
	)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	return s.mail.Send(sendCtx, task.Account.Email, subject, body)
}
