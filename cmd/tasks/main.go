package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirajahmedx/task-manager/internal/server"
	db "github.com/sirajahmedx/task-manager/repository/db"
	inmemory "github.com/sirajahmedx/task-manager/repository/inmemory"
)

func main() {
	log.Println("Запуск сервиса задач...")

	cfg := server.ReadConfig()

	var userRepo server.Repository
	var taskRepo server.TaskRepository

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbStorage, err := db.NewStorage(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Println("[WARN] Не удалось подключиться к БД, используем память:", err)
		inmem := inmemory.NewStorage()
		userRepo = inmem
		taskRepo = inmem
	} else {
		if err := dbStorage.EnsureSchema(ctx); err != nil {
			log.Fatalf("[ERROR] Ошибка подготовки схемы коллекций: %v", err)
		}
		log.Println("[SUCCESS] Схема коллекций подготовлена")

		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer closeCancel()
			if err := db.Close(closeCtx); err != nil {
				log.Printf("[ERROR] Ошибка при отключении от БД: %v", err)
			}
		}()

		userRepo = dbStorage
		taskRepo = dbStorage
	}

	api := server.NewTaskAPI(userRepo, taskRepo, cfg)
	if api == nil {
		log.Fatal("[ERROR] Не удалось инициализировать API")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Сервис запущен на %s:%d", cfg.Addr, cfg.Port)
		if err := api.Start(); err != nil {
			serverErr <- err
		}
	}()

	select {
	case sig := <-sigChan:
		log.Printf("[INFO] Получен сигнал %v, начинаем graceful shutdown...", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := api.Shutdown(shutdownCtx); err != nil {
			log.Printf("[ERROR] Ошибка при graceful shutdown: %v", err)
		} else {
			log.Println("[SUCCESS] Graceful shutdown выполнен успешно")
		}

	case err := <-serverErr:
		log.Printf("[ERROR] Ошибка сервера: %v", err)
		cancel()
	}

	log.Println("Сервис завершен")
}
