package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sirajahmedx/task-manager/internal/auth"
	"github.com/sirajahmedx/task-manager/internal/domain/errors"
)

const stateCookie = "oauth_state"

// googleLogin уводит пользователя на страницу согласия Google.
// Параметр state сохраняется в cookie и сверяется в callback.
func (api *TaskAPI) googleLogin(ctx *gin.Context) {
	state := uuid.New().String()
	ctx.SetCookie(stateCookie, state, 600, "/", "", false, true)
	ctx.Redirect(http.StatusTemporaryRedirect, api.google.AuthURL(state))
}

// googleCallback завершает вход: сверяет state, меняет код на профиль,
// разрешает внутреннего пользователя и выпускает сессию. При любой
// ошибке хранилища сессия не выпускается.
func (api *TaskAPI) googleCallback(ctx *gin.Context) {
	state, err := ctx.Cookie(stateCookie)
	if err != nil || state == "" || ctx.Query("state") != state {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errors.ErrStateMismatch.Error()})
		return
	}
	ctx.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := ctx.Query("code")
	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errors.ErrBadRequest.Error()})
		return
	}

	profile, err := api.google.Exchange(ctx.Request.Context(), code)
	if err != nil {
		log.Println("[ERROR] Не удалось получить профиль Google:", err)
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": errors.ErrAuthFailed.Error()})
		return
	}

	user, err := auth.Resolve(ctx.Request.Context(), api.users, profile)
	if err != nil {
		log.Println("[ERROR] Не удалось разрешить пользователя:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errors.ErrAuthFailed.Error()})
		return
	}

	token, err := api.sessions.Issue(user.ID)
	if err != nil {
		log.Println("[ERROR] Не удалось выпустить токен сессии:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errors.ErrInternalServer.Error()})
		return
	}

	ctx.SetCookie(auth.SessionCookie, token, int(api.sessions.TTL().Seconds()), "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (api *TaskAPI) logout(ctx *gin.Context) {
	ctx.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "выход выполнен успешно"})
}

func (api *TaskAPI) me(ctx *gin.Context) {
	user, err := api.users.GetUserByID(ctx.Request.Context(), SessionUserID(ctx))
	if err != nil {
		if err == errors.ErrUserNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": errors.ErrUserNotFound.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}
