package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	TelegramToken  string
	OperatorChatID int64
	AppEnv         string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	operatorID, _ := strconv.ParseInt(os.Getenv("OPERATOR_CHAT_ID"), 10, 64)

	cfg := &Config{
		DBHost:         os.Getenv("DB_HOST"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBPort:         os.Getenv("DB_PORT"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		OperatorChatID: operatorID,
		AppEnv:         os.Getenv("APP_ENV"),
	}

	if cfg.TelegramToken == "" || cfg.OperatorChatID == 0 {
		log.Fatal("TELEGRAM_TOKEN and OPERATOR_CHAT_ID must be set")
	}
	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}
