package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port             string
	MongoURI         string
	DatabaseName     string
	RabbitMQURI      string
	RabbitMQExchange string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	JWTSecret        string
	FEAddress        string

	// Assessment policy knobs. PassThreshold decides pass/fail on a scored
	// attempt; CooldownTrigger decides whether a low score starts a cooldown.
	// They are independent business rules and stay separately configurable.
	PassThreshold   float64
	CooldownHours   int
	CooldownTrigger float64
	RateLimitPerMin int
}

var ServiceConfig *Config

func init() {
	ServiceConfig = New()
}

func New() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		MongoURI:         getEnv("MONGO_URI", ""),
		DatabaseName:     getEnv("DATABASE_NAME", "learning_service"),
		RabbitMQURI:      getEnv("RABBITMQ_URI", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PWD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		FEAddress:        getEnv("FE_ADDR", "http://localhost:3000"),
		PassThreshold:    getEnvFloat("ASSESSMENT_PASS_THRESHOLD", 0.5),
		CooldownHours:    getEnvInt("ASSESSMENT_COOLDOWN_HOURS", 72),
		CooldownTrigger:  getEnvFloat("ASSESSMENT_COOLDOWN_TRIGGER", 0.5),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default %d", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default %f", key, value, fallback)
		return fallback
	}
	return parsed
}
