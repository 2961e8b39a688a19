package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/sirajahmedx/task-manager/internal/domain/errors"
)

type Config struct {
	Addr               string
	Port               int
	MongoURI           string
	DBName             string
	SessionSecret      string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

const (
	defaultAddr          = "0.0.0.0"
	defaultPort          = 8080
	defaultMongoURI      = "mongodb://localhost:27017"
	defaultDBName        = "taskmanager"
	defaultSessionSecret = "shouldbeinVaultsessionsecret"
	defaultRedirectURL   = "http://localhost:8080/auth/google/callback"
)

var (
	addr       = flag.String("addr", defaultAddr, "адрес сервера (по умолчанию 0.0.0.0)")
	port       = flag.Int("port", defaultPort, "порт сервера (по умолчанию 8080)")
	mongoURI   = flag.String("mongouri", defaultMongoURI, "строка подключения к MongoDB")
	dbName     = flag.String("dbname", defaultDBName, "имя базы данных")
	configFile = flag.String("c", "", "путь к файлу конфигурации JSON")
	parsed     = false
)

func ReadConfig() *Config {
	if !parsed {
		flag.Parse()
		parsed = true
	}

	cfg := &Config{
		Addr:              defaultAddr,
		Port:              defaultPort,
		MongoURI:          defaultMongoURI,
		DBName:            defaultDBName,
		SessionSecret:     defaultSessionSecret,
		GoogleRedirectURL: defaultRedirectURL,
	}

	jsonConfig := loadJSONConfig()
	if jsonConfig != nil {
		cfg = jsonConfig
	}

	cfg = applyEnvOverrides(cfg)
	cfg = applyFlagOverrides(cfg)

	return cfg
}

func loadJSONConfig() *Config {
	configPath := *configFile
	if configPath == "" {
		configPath = os.Getenv("CONFIG")
	}

	if configPath == "" {
		return nil
	}

	fmt.Printf("Загрузка JSON конфигурации из: %s\n", configPath)
	data, err := os.ReadFile(configPath)
	if err != nil {
		fmt.Printf("Warning: %s %s: %v\n", errors.ErrConfigFileReadFailed.Error(), configPath, err)
		return nil
	}

	var jsonConfig Config
	if err := json.Unmarshal(data, &jsonConfig); err != nil {
		fmt.Printf("Warning: %s: %v\n", errors.ErrConfigParseFailed.Error(), err)
		return nil
	}

	fmt.Printf("JSON конфигурация успешно загружена из: %s\n", configPath)
	return &jsonConfig
}

func applyEnvOverrides(cfg *Config) *Config {
	if addr := os.Getenv("ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err != nil {
			fmt.Printf("Warning: %s в переменной окружения PORT: %s\n", errors.ErrConfigInvalidFormat.Error(), port)
		} else if p < 1 || p > 65535 {
			fmt.Printf("Warning: %s - порт должен быть от 1 до 65535: %d\n", errors.ErrConfigInvalidFormat.Error(), p)
		} else {
			cfg.Port = p
		}
	}
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		cfg.MongoURI = uri
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.DBName = name
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.SessionSecret = secret
	}
	if id := os.Getenv("GOOGLE_CLIENT_ID"); id != "" {
		cfg.GoogleClientID = id
	}
	if secret := os.Getenv("GOOGLE_CLIENT_SECRET"); secret != "" {
		cfg.GoogleClientSecret = secret
	}
	if url := os.Getenv("GOOGLE_REDIRECT_URL"); url != "" {
		cfg.GoogleRedirectURL = url
	}

	return cfg
}

// applyFlagOverrides учитывает только флаги, заданные явно, чтобы
// значения по умолчанию не затирали переменные окружения.
func applyFlagOverrides(cfg *Config) *Config {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "port":
			cfg.Port = *port
		case "mongouri":
			cfg.MongoURI = *mongoURI
		case "dbname":
			cfg.DBName = *dbName
		}
	})

	return cfg
}
