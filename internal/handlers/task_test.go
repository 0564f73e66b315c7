package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/taskhub/taskhub/internal/constants"
	"github.com/taskhub/taskhub/internal/database"
	"github.com/taskhub/taskhub/internal/dto"
	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repository"
	"github.com/taskhub/taskhub/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
	router  *gin.Engine
	caller  *models.Account
	other   *models.Account
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.Account{},
		&models.Task{},
		&models.Note{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	taskService := services.NewTaskService(repository.NewTaskRepository(suite.db))
	suite.handler = NewTaskHandler(taskService)

	suite.caller = suite.createTestAccount("caller@example.com")
	suite.other = suite.createTestAccount("other@example.com")

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Routes run behind a stub that authenticates every request as the caller
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyAccountID, suite.caller.ID)
		c.Next()
	})
	suite.router.GET("/dashboard", suite.handler.Dashboard)
	suite.router.POST("/tasks/add", suite.handler.AddTask)
	suite.router.POST("/tasks/:id/update", suite.handler.UpdateTask)
	suite.router.POST("/tasks/:id/delete", suite.handler.DeleteTask)
	suite.router.PUT("/tasks/api/:id/complete", suite.handler.CompleteTaskAPI)
	suite.router.DELETE("/tasks/api/:id", suite.handler.DeleteTaskAPI)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *TaskHandlerTestSuite) createTestAccount(email string) *models.Account {
	account := &models.Account{
		Name:         "Test Account",
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(account)
	return account
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, accountID uint64, completed bool, dueDate *time.Time) *models.Task {
	task := &models.Task{
		Title:               title,
		Completed:           completed,
		DueDate:             dueDate,
		RemindBeforeMinutes: 60,
		AccountID:           accountID,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskHandlerTestSuite) doForm(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) dashboard(query string) dto.DashboardResponse {
	w := suite.doForm(http.MethodGet, "/dashboard"+query, nil)
	suite.Equal(http.StatusOK, w.Code)

	var resp dto.DashboardResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// Tests

func (suite *TaskHandlerTestSuite) TestDashboard_FilterCompleted() {
	due := time.Now().Add(24 * time.Hour)
	suite.createTestTask("done", suite.caller.ID, true, nil)
	suite.createTestTask("open with due", suite.caller.ID, false, &due)
	suite.createTestTask("open without due", suite.caller.ID, false, nil)

	resp := suite.dashboard("?filter=completed")
	suite.Require().Len(resp.Tasks, 1)
	suite.Equal("done", resp.Tasks[0].Title)
	suite.True(resp.Tasks[0].Completed)
}

func (suite *TaskHandlerTestSuite) TestDashboard_FilterPlanned() {
	due := time.Now().Add(24 * time.Hour)
	suite.createTestTask("done", suite.caller.ID, true, &due)
	suite.createTestTask("open with due", suite.caller.ID, false, &due)
	suite.createTestTask("open without due", suite.caller.ID, false, nil)

	resp := suite.dashboard("?filter=planned")
	suite.Require().Len(resp.Tasks, 1)
	suite.Equal("open with due", resp.Tasks[0].Title)
	suite.False(resp.Tasks[0].Completed)
	suite.NotNil(resp.Tasks[0].DueDate)
}

func (suite *TaskHandlerTestSuite) TestDashboard_FilterCategory() {
	task := suite.createTestTask("work task", suite.caller.ID, false, nil)
	suite.db.Model(task).Update("category", "work")
	suite.createTestTask("personal task", suite.caller.ID, false, nil)

	resp := suite.dashboard("?category=work")
	suite.Require().Len(resp.Tasks, 1)
	suite.Equal("work task", resp.Tasks[0].Title)
}

func (suite *TaskHandlerTestSuite) TestDashboard_SortByDueDate() {
	later := time.Now().Add(48 * time.Hour)
	sooner := time.Now().Add(2 * time.Hour)
	suite.createTestTask("later", suite.caller.ID, false, &later)
	suite.createTestTask("no due date", suite.caller.ID, false, nil)
	suite.createTestTask("sooner", suite.caller.ID, false, &sooner)

	resp := suite.dashboard("?sort=dueDate")
	suite.Require().Len(resp.Tasks, 3)
	suite.Equal("sooner", resp.Tasks[0].Title)
	suite.Equal("later", resp.Tasks[1].Title)
	suite.Equal("no due date", resp.Tasks[2].Title)
}

func (suite *TaskHandlerTestSuite) TestDashboard_NeverLeaksForeignTasks() {
	suite.createTestTask("mine", suite.caller.ID, false, nil)
	suite.createTestTask("theirs", suite.other.ID, false, nil)

	resp := suite.dashboard("")
	suite.Require().Len(resp.Tasks, 1)
	suite.Equal("mine", resp.Tasks[0].Title)
}

func (suite *TaskHandlerTestSuite) TestAddTask_Defaults() {
	w := suite.doForm(http.MethodPost, "/tasks/add", url.Values{
		"title":   {"Pay rent"},
		"dueDate": {"2026-01-10"},
	})
	suite.Equal(http.StatusCreated, w.Code)

	var created dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.Equal("Pay rent", created.Title)
	suite.Equal(60, created.RemindBeforeMinutes)
	suite.False(created.Completed)
	suite.Require().NotNil(created.DueDate)
}

func (suite *TaskHandlerTestSuite) TestAddTask_MissingTitle() {
	w := suite.doForm(http.MethodPost, "/tasks/add", url.Values{
		"category": {"work"},
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	suite.Zero(count)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_DueDateChangeRearmsReminder() {
	due := time.Now().Add(time.Hour)
	task := suite.createTestTask("task", suite.caller.ID, false, &due)
	suite.db.Model(task).Update("reminder_sent", true)

	w := suite.doForm(http.MethodPost, "/tasks/"+itoa(task.ID)+"/update", url.Values{
		"dueDate": {"2026-03-01T09:00"},
	})
	suite.Equal(http.StatusOK, w.Code)

	var updated models.Task
	suite.Require().NoError(suite.db.First(&updated, task.ID).Error)
	suite.False(updated.ReminderSent)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_ForeignTaskMatchesNothing() {
	task := suite.createTestTask("theirs", suite.other.ID, false, nil)

	w := suite.doForm(http.MethodPost, "/tasks/"+itoa(task.ID)+"/update", url.Values{
		"title": {"hijacked"},
	})
	suite.Equal(http.StatusNotFound, w.Code)

	var unchanged models.Task
	suite.Require().NoError(suite.db.First(&unchanged, task.ID).Error)
	suite.Equal("theirs", unchanged.Title)
}

func (suite *TaskHandlerTestSuite) TestCompleteTaskAPI() {
	task := suite.createTestTask("todo", suite.caller.ID, false, nil)

	w := suite.doForm(http.MethodPut, "/tasks/api/"+itoa(task.ID)+"/complete", nil)
	suite.Equal(http.StatusOK, w.Code)

	var completed models.Task
	suite.Require().NoError(suite.db.First(&completed, task.ID).Error)
	suite.True(completed.Completed)
}

func (suite *TaskHandlerTestSuite) TestCompleteTaskAPI_ForeignTask() {
	task := suite.createTestTask("theirs", suite.other.ID, false, nil)

	w := suite.doForm(http.MethodPut, "/tasks/api/"+itoa(task.ID)+"/complete", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	var unchanged models.Task
	suite.Require().NoError(suite.db.First(&unchanged, task.ID).Error)
	suite.False(unchanged.Completed)
}

func (suite *TaskHandlerTestSuite) TestDeleteTaskAPI_ForeignTaskIsNoOp() {
	task := suite.createTestTask("theirs", suite.other.ID, false, nil)

	w := suite.doForm(http.MethodDelete, "/tasks/api/"+itoa(task.ID), nil)
	suite.Equal(http.StatusOK, w.Code)

	// The foreign record survives; the delete matched zero rows.
	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_OwnTask() {
	task := suite.createTestTask("mine", suite.caller.ID, false, nil)

	w := suite.doForm(http.MethodPost, "/tasks/"+itoa(task.ID)+"/delete", nil)
	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	suite.Zero(count)
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
