package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"

	"github.com/sirajahmedx/task-manager/internal/auth"
	"github.com/sirajahmedx/task-manager/internal/domain/errors"
	"github.com/sirajahmedx/task-manager/internal/domain/models"
)

const sessionTTL = 7 * 24 * time.Hour

type Repository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	GetTasks(ctx context.Context, userID string) ([]models.Task, error)
	UpdateTask(ctx context.Context, id string, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error
}

type TaskAPI struct {
	httpSrv  *http.Server
	users    Repository
	tasks    TaskRepository
	sessions *auth.SessionManager
	google   *auth.GoogleProvider
}

func NewTaskAPI(users Repository, tasks TaskRepository, cfg *Config) *TaskAPI {
	if users == nil || tasks == nil {
		return nil
	}
	if cfg == nil {
		cfg = &Config{}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Addr, cfg.Port)
	if cfg.Addr == "" && cfg.Port == 0 {
		addr = ""
	}

	api := &TaskAPI{
		httpSrv:  &http.Server{Addr: addr},
		users:    users,
		tasks:    tasks,
		sessions: auth.NewSessionManager(cfg.SessionSecret, sessionTTL),
		google:   auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL),
	}

	api.configRoutes()

	return api
}

func (api *TaskAPI) Start() error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}

	if api.httpSrv.Addr == "" {
		api.httpSrv.Addr = ":8080"
	}

	return api.httpSrv.ListenAndServe()
}

// ServeHTTP позволяет использовать API как http.Handler без запуска
// собственного listener, например в тестах.
func (api *TaskAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.httpSrv.Handler.ServeHTTP(w, r)
}

func (api *TaskAPI) Shutdown(ctx context.Context) error {
	if api.httpSrv == nil {
		return nil
	}
	return api.httpSrv.Shutdown(ctx)
}

func (api *TaskAPI) configRoutes() {
	router := gin.Default()

	router.Use(RequestID(), GzipRequestDecompress(), GzipResponseCompress())

	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "error": "использован некорректный HTTP-метод"})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.GET("/google/login", api.googleLogin)
		authGroup.GET("/google/callback", api.googleCallback)
		authGroup.POST("/logout", api.logout)
		authGroup.GET("/me", api.RequireSession(), api.me)
	}

	tasks := router.Group("/tasks", api.RequireSession())
	{
		tasks.GET("", api.getTasks)
		tasks.POST("", api.createTask)
		tasks.PUT(":taskID", api.updateTask)
		tasks.DELETE(":taskID", api.deleteTask)
	}

	api.httpSrv.Handler = router
}

func (api *TaskAPI) getTasks(ctx *gin.Context) {
	ownerID := SessionUserID(ctx)
	if ownerID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errors.ErrOwnerRequired.Error()})
		return
	}

	// Параметр user из запроса не используется: принадлежность задач
	// определяется только по сессии.
	if requested := ctx.Query("user"); requested != "" && requested != ownerID {
		log.Println("[WARN] Параметр user не совпадает с сессией и игнорируется:", requested)
	}

	tasks, err := api.tasks.GetTasks(ctx.Request.Context(), ownerID)
	if err != nil {
		if err == errors.ErrOwnerRequired || err == errors.ErrValidationFailed {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": tasks})
}

func (api *TaskAPI) createTask(ctx *gin.Context) {
	var req models.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errors.ErrBadRequest.Error()})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validationErrorToErrorResponse(err).Error()})
		return
	}

	status := models.Status(req.Status)
	if req.Status == "" {
		status = models.StatusTodo
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		UserID:      SessionUserID(ctx),
	}

	if err := api.tasks.CreateTask(ctx.Request.Context(), &task); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": task})
}

func (api *TaskAPI) updateTask(ctx *gin.Context) {
	id := ctx.Param("taskID")
	if !models.IsValidID(id) {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errors.ErrInvalidTaskID.Error()})
		return
	}

	var req models.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errors.ErrBadRequest.Error()})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validationErrorToErrorResponse(err).Error()})
		return
	}

	// Полная замена полей. Поле user из тела игнорируется: владельцем
	// остаётся пользователь сессии.
	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.Status(req.Status),
		UserID:      SessionUserID(ctx),
	}

	if err := api.tasks.UpdateTask(ctx.Request.Context(), id, &task); err != nil {
		switch err {
		case errors.ErrNotFound:
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": errors.ErrNotFound.Error()})
		case errors.ErrInvalidTaskID:
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errors.ErrInvalidTaskID.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errors.ErrInternalServer.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (api *TaskAPI) deleteTask(ctx *gin.Context) {
	id := ctx.Param("taskID")
	if !models.IsValidID(id) {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errors.ErrInvalidTaskID.Error()})
		return
	}

	if err := api.tasks.DeleteTask(ctx.Request.Context(), id); err != nil {
		switch err {
		case errors.ErrNotFound:
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": errors.ErrNotFound.Error()})
		case errors.ErrInvalidTaskID:
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errors.ErrInvalidTaskID.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errors.ErrInternalServer.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "задача успешно удалена"})
}

func validationErrorToErrorResponse(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, verr := range verrs {
			switch verr.Field() {
			case "Title":
				return errors.ErrInvalidTitle
			case "Description":
				return errors.ErrInvalidDescription
			case "Email":
				return errors.ErrInvalidEmail
			}
		}
	}
	return errors.ErrValidationFailed
}
