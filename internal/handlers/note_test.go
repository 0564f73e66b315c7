package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskhub/taskhub/internal/constants"
	"github.com/taskhub/taskhub/internal/database"
	"github.com/taskhub/taskhub/internal/dto"
	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repository"
	"github.com/taskhub/taskhub/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type noteTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
	caller *models.Account
	other  *models.Account
}

func setupNoteTestEnv(t *testing.T) noteTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.Task{}, &models.Note{}))
	database.SetDB(db)

	caller := &models.Account{Name: "Caller", Email: "caller@example.com", PasswordHash: "x"}
	other := &models.Account{Name: "Other", Email: "other@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(caller).Error)
	require.NoError(t, db.Create(other).Error)

	handler := NewNoteHandler(services.NewNoteService(repository.NewNoteRepository(db)))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyAccountID, caller.ID)
		c.Next()
	})
	r.GET("/notes", handler.ListNotes)
	r.POST("/notes", handler.CreateNote)
	r.POST("/notes/:id/delete", handler.DeleteNote)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return noteTestEnv{db: db, router: r, caller: caller, other: other}
}

func TestNoteHandler_CreateAndList(t *testing.T) {
	env := setupNoteTestEnv(t)

	body, _ := json.Marshal(map[string]interface{}{
		"title":    "Thesis",
		"content":  "Write the intro",
		"progress": 150,
	})
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.NoteDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, 100, created.Progress, "progress is clamped to 100")

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Notes []dto.NoteDTO `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Notes, 1)
	require.Equal(t, "Thesis", resp.Notes[0].Title)
}

func TestNoteHandler_CreateMissingContent(t *testing.T) {
	env := setupNoteTestEnv(t)

	body, _ := json.Marshal(map[string]string{"title": "Only title"})
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNoteHandler_DeleteForeignNoteIsNoOp(t *testing.T) {
	env := setupNoteTestEnv(t)

	note := &models.Note{Title: "Theirs", Content: "secret", AccountID: env.other.ID}
	require.NoError(t, env.db.Create(note).Error)

	req := httptest.NewRequest(http.MethodPost, "/notes/"+strconv.FormatUint(note.ID, 10)+"/delete", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	env.db.Model(&models.Note{}).Where("id = ?", note.ID).Count(&count)
	require.Equal(t, int64(1), count)
}
