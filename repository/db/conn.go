package db

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// connectTimeout ограничивает ожидание подключения и служебных операций.
// Переопределяется в тестах.
var connectTimeout = 15 * time.Second

// connCache хранит общий для процесса кэш подключения к MongoDB.
// Жизненный цикл: не инициализирован -> подключение -> готов.
// При ошибке подключения состояние сбрасывается, и следующая попытка
// открывает соединение заново. Конкурентные вызовы во время подключения
// ждут общий результат, а не открывают дубликаты соединений.
type connCache struct {
	mu       sync.Mutex
	client   *mongo.Client
	inflight chan struct{}
	err      error
}

var cache connCache

func acquireClient(ctx context.Context, uri string) (*mongo.Client, error) {
	cache.mu.Lock()
	if cache.client != nil {
		client := cache.client
		cache.mu.Unlock()
		return client, nil
	}

	if cache.inflight != nil {
		done := cache.inflight
		cache.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		cache.mu.Lock()
		client, err := cache.client, cache.err
		cache.mu.Unlock()
		if client != nil {
			return client, nil
		}
		return nil, err
	}

	done := make(chan struct{})
	cache.inflight = done
	cache.mu.Unlock()

	client, err := dial(ctx, uri)

	cache.mu.Lock()
	if err != nil {
		cache.err = err
	} else {
		cache.client = client
		cache.err = nil
	}
	cache.inflight = nil
	cache.mu.Unlock()
	close(done)

	return client, err
}

func dial(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(connectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Close закрывает общее соединение и возвращает кэш в исходное состояние.
func Close(ctx context.Context) error {
	cache.mu.Lock()
	client := cache.client
	cache.client = nil
	cache.err = nil
	cache.mu.Unlock()

	if client != nil {
		return client.Disconnect(ctx)
	}
	return nil
}
