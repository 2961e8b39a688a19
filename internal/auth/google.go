package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/sirajahmedx/task-manager/internal/domain/models"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProvider оборачивает OAuth-поток Google: редирект на страницу
// согласия, обмен кода на токен и запрос профиля пользователя.
type GoogleProvider struct {
	conf *oauth2.Config
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL возвращает адрес страницы согласия Google для данного state.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

// Exchange меняет код авторизации на профиль пользователя.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (models.GoogleProfile, error) {
	var profile models.GoogleProfile

	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return profile, fmt.Errorf("обмен кода авторизации: %w", err)
	}

	resp, err := p.conf.Client(ctx, token).Get(userinfoURL)
	if err != nil {
		return profile, fmt.Errorf("запрос профиля: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return profile, fmt.Errorf("запрос профиля: статус %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return profile, fmt.Errorf("разбор профиля: %w", err)
	}
	return profile, nil
}
