package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/meal-planner/internal/config"
)

func main() {
	fmt.Println("🔍 Verificando configuración...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  archivo .env no encontrado: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuración inválida:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ ¡Configuración válida!")
	fmt.Printf("📋 Detalles:\n")
	fmt.Printf("  - HTTP Addr: %s\n", cfg.HTTP.Addr)
	fmt.Printf("  - Gin Mode: %s\n", cfg.HTTP.GinMode)
	fmt.Printf("  - DB Driver: %s\n", cfg.DB.Driver)
	switch cfg.DB.Driver {
	case config.DriverSQLite:
		fmt.Printf("  - DB Path: %s\n", cfg.DB.Path)
	case config.DriverPostgres:
		fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
		fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
		fmt.Printf("  - DB User: %s\n", cfg.DB.User)
		fmt.Printf("  - DB Password: %s\n", maskSecret(cfg.DB.Password))
		fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	}
	fmt.Printf("  - Migrations Dir: %s\n", orUnset(cfg.DB.MigrationsDir))
	fmt.Printf("  - Cache Driver: %s\n", orUnset(cfg.Cache.Driver))
	if cfg.Cache.Driver == config.CacheRedis {
		fmt.Printf("  - Redis Addr: %s\n", cfg.Redis.Addr())
		fmt.Printf("  - Redis Password: %s\n", maskSecret(cfg.Redis.Password))
	}
	fmt.Printf("  - Cache TTL: %s\n", cfg.Cache.TTL)
	fmt.Printf("  - Rate Limit: %.2f req/s (burst %d)\n", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func orUnset(v string) string {
	if v == "" {
		return "<no establecido>"
	}
	return v
}

func maskSecret(secret string) string {
	if secret == "" {
		return "<no establecido>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
