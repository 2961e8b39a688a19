package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirajahmedx/task-manager/internal/client"
	"github.com/sirajahmedx/task-manager/internal/ui"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "адрес сервиса задач")
	session := flag.String("session", os.Getenv("TASKS_SESSION"), "сессионный токен (cookie session)")
	flag.Parse()

	if *session == "" {
		log.Fatal("[ERROR] Не задан сессионный токен: флаг -session или переменная TASKS_SESSION")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc := client.New(*serverURL, *session)
	if err := ui.Run(ctx, svc); err != nil {
		log.Fatalf("[ERROR] Доска завершилась с ошибкой: %v", err)
	}
}
