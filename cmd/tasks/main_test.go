package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirajahmedx/task-manager/internal/auth"
	"github.com/sirajahmedx/task-manager/internal/domain/models"
	"github.com/sirajahmedx/task-manager/internal/server"
	inmemory "github.com/sirajahmedx/task-manager/repository/inmemory"
)

func TestConfigurationReading(t *testing.T) {
	cfg := server.ReadConfig()
	assert.NotNil(t, cfg, "Configuration should not be nil")
	assert.NotEmpty(t, cfg.DBName)
	assert.NotEmpty(t, cfg.SessionSecret)
}

func TestAPIInitialization(t *testing.T) {
	inmem := inmemory.NewStorage()
	api := server.NewTaskAPI(inmem, inmem, server.ReadConfig())
	assert.NotNil(t, api, "API should be created")
}

func TestGracefulShutdownSignalHandling(t *testing.T) {
	tests := []struct {
		name   string
		signal os.Signal
	}{
		{name: "SIGINT signal", signal: syscall.SIGINT},
		{name: "SIGTERM signal", signal: syscall.SIGTERM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, tt.signal)
			defer signal.Stop(sigChan)

			go func() {
				time.Sleep(10 * time.Millisecond)
				sigChan <- tt.signal
			}()

			select {
			case sig := <-sigChan:
				assert.Equal(t, tt.signal, sig)
			case <-time.After(100 * time.Millisecond):
				t.Fatal("Signal not received within timeout")
			}
		})
	}
}

// TestBoardFlow проходит полный цикл доски поверх памяти:
// вход пользователя, создание задачи, перенос между колонками,
// удаление и повторное удаление.
func TestBoardFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	inmem := inmemory.NewStorage()
	cfg := server.ReadConfig()
	api := server.NewTaskAPI(inmem, inmem, cfg)
	require.NotNil(t, api)

	user, err := auth.Resolve(ctx, inmem, models.GoogleProfile{
		Email: "board@example.com",
		Name:  "Пользователь доски",
	})
	require.NoError(t, err)

	session, err := auth.NewSessionManager(cfg.SessionSecret, time.Hour).Issue(user.ID)
	require.NoError(t, err)

	call := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req, _ := http.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: session})

		w := httptest.NewRecorder()
		api.ServeHTTP(w, req)
		return w
	}

	// Создание задачи.
	w := call("POST", "/tasks", models.CreateTaskRequest{Title: "Задача на доске"})
	require.Equal(t, 201, w.Code)

	var created struct {
		Data models.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.True(t, models.IsValidID(created.Data.ID))
	assert.Equal(t, models.StatusTodo, created.Data.Status)
	assert.Equal(t, user.ID, created.Data.UserID)

	// Задача видна в списке.
	w = call("GET", "/tasks", nil)
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "Задача на доске")

	// Перенос в другую колонку.
	w = call("PUT", "/tasks/"+created.Data.ID, models.UpdateTaskRequest{
		Title:  created.Data.Title,
		Status: "doing",
	})
	require.Equal(t, 200, w.Code)

	var moved struct {
		Data models.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &moved))
	assert.Equal(t, models.StatusDoing, moved.Data.Status)

	// Удаление и повторное удаление.
	w = call("DELETE", "/tasks/"+created.Data.ID, nil)
	require.Equal(t, 200, w.Code)

	w = call("DELETE", "/tasks/"+created.Data.ID, nil)
	assert.Equal(t, 404, w.Code)
}
