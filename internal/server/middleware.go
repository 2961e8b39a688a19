package server

import (
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sirajahmedx/task-manager/internal/auth"
	"github.com/sirajahmedx/task-manager/internal/domain/errors"
)

const sessionUserKey = "sessionUserID"

// RequireSession проверяет JWT-сессию в cookie и кладёт идентификатор
// пользователя в контекст запроса. Без действительной сессии запрос
// отклоняется: принадлежность задач определяется только по сессии.
func (api *TaskAPI) RequireSession() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(auth.SessionCookie)
		if err != nil || token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": errors.ErrUnauthorized.Error()})
			return
		}

		userID, err := api.sessions.Verify(token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": errors.ErrSessionInvalid.Error()})
			return
		}

		ctx.Set(sessionUserKey, userID)
		ctx.Next()
	}
}

// SessionUserID возвращает идентификатор пользователя текущей сессии.
func SessionUserID(ctx *gin.Context) string {
	return ctx.GetString(sessionUserKey)
}

// RequestID проставляет X-Request-ID, если клиент его не прислал.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		ctx.Writer.Header().Set("X-Request-ID", id)
		ctx.Next()
	}
}

// GzipRequestDecompress распаковывает gzip-тело запроса.
func GzipRequestDecompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		encoding := strings.ToLower(ctx.GetHeader("Content-Encoding"))
		if strings.Contains(encoding, "gzip") {
			gr, err := gzip.NewReader(ctx.Request.Body)
			if err != nil {
				ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": errors.ErrInvalidGzipRequest.Error()})
				return
			}

			ctx.Request.Body = gr
			ctx.Request.Header.Del("Content-Encoding")
			ctx.Request.Header.Del("Content-Length")
		}
		ctx.Next()
	}
}

type gzipWriter struct {
	gin.ResponseWriter
	gw *gzip.Writer
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	return w.gw.Write(data)
}

func (w *gzipWriter) WriteString(s string) (int, error) {
	return w.gw.Write([]byte(s))
}

// GzipResponseCompress сжимает ответ, если клиент поддерживает gzip.
func GzipResponseCompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodHead {
			ctx.Next()
			return
		}

		acceptEnc := strings.ToLower(ctx.GetHeader("Accept-Encoding"))
		if !strings.Contains(acceptEnc, "gzip") {
			ctx.Next()
			return
		}

		ctx.Writer.Header().Set("Content-Encoding", "gzip")
		ctx.Writer.Header().Set("Vary", "Accept-Encoding")
		ctx.Writer.Header().Del("Content-Length")

		gw := gzip.NewWriter(ctx.Writer)
		ctx.Writer = &gzipWriter{ResponseWriter: ctx.Writer, gw: gw}

		ctx.Next()

		if err := gw.Close(); err != nil {
			_ = ctx.Error(errors.ErrGzipCompressionFailed)
		}
	}
}
