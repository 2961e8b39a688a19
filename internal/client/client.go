// Package client реализует HTTP-клиента сервиса задач.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirajahmedx/task-manager/internal/auth"
	"github.com/sirajahmedx/task-manager/internal/domain/models"
)

const requestTimeout = 15 * time.Second

type Client struct {
	baseURL string
	session string
	httpc   *http.Client
}

// New создаёт клиента. sessionToken содержит значение cookie session,
// полученное после входа через /auth/google/login.
func New(baseURL, sessionToken string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: sessionToken,
		httpc:   &http.Client{Timeout: requestTimeout},
	}
}

// apiResponse описывает единый конверт ответов сервиса.
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*apiResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: c.session})

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("некорректный ответ сервера: %w", err)
	}
	if !out.Success {
		if out.Error != "" {
			return nil, stderrors.New(out.Error)
		}
		return nil, fmt.Errorf("сервер вернул статус %d", resp.StatusCode)
	}
	return &out, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	resp, err := c.do(ctx, http.MethodGet, "/tasks", nil)
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := json.Unmarshal(resp.Data, &tasks); err != nil {
		return nil, fmt.Errorf("разбор списка задач: %w", err)
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.Task, error) {
	var task models.Task

	resp, err := c.do(ctx, http.MethodPost, "/tasks", req)
	if err != nil {
		return task, err
	}
	if err := json.Unmarshal(resp.Data, &task); err != nil {
		return task, fmt.Errorf("разбор задачи: %w", err)
	}
	return task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) (models.Task, error) {
	var task models.Task

	resp, err := c.do(ctx, http.MethodPut, "/tasks/"+id, req)
	if err != nil {
		return task, err
	}
	if err := json.Unmarshal(resp.Data, &task); err != nil {
		return task, fmt.Errorf("разбор задачи: %w", err)
	}
	return task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/tasks/"+id, nil)
	return err
}

// MoveTask выполняет «перетаскивание» задачи в другую колонку: полная замена
// полей с прежними заголовком и описанием и новым статусом.
func (c *Client) MoveTask(ctx context.Context, task models.Task, status models.Status) (models.Task, error) {
	return c.UpdateTask(ctx, task.ID, models.UpdateTaskRequest{
		Title:       task.Title,
		Description: task.Description,
		Status:      string(status),
		UserID:      task.UserID,
	})
}
