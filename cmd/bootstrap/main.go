// Package main 系统引导：建表并写入初始数据
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"casino-platform-api/internal/config"
	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层（仅 PostgreSQL）
	dataLayer, cleanup, err := wire.InitializeDataLayer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 建表
	fmt.Println("Running schema migration...")
	if err := dataLayer.PgClient.DB().WithContext(ctx).AutoMigrate(
		&entity.Domain{},
		&entity.Property{},
		&entity.Player{},
		&entity.PlayerSession{},
		&entity.AuditRecord{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	// 4. 写入全局属性基线
	globalDefaults := map[string]string{
		"maxPlayers":           "10000",
		"maxSessionsPerPlayer": "3",
		"maxRequestsPerMinute": "600",
		"registrationOpen":     "true",
	}
	for name, value := range globalDefaults {
		existing, err := dataLayer.PropertyRepo.Get(ctx, entity.GlobalDomainID, name)
		if err != nil {
			log.Fatalf("failed to check global property %s: %v", name, err)
		}
		if existing != nil {
			continue
		}
		if err := dataLayer.PropertyRepo.Set(ctx, entity.GlobalDomainID, name, value); err != nil {
			log.Fatalf("failed to seed global property %s: %v", name, err)
		}
		fmt.Printf("Seeded global property %s=%s\n", name, value)
	}

	// 5. 创建演示租户
	demoCode := "demo-casino"
	exists, err := dataLayer.DomainRepo.ExistsByCode(ctx, demoCode)
	if err != nil {
		log.Fatalf("failed to check tenant existence: %v", err)
	}

	if !exists {
		fmt.Printf("Creating demo tenant: %s...\n", demoCode)
		domain := entity.NewDomain(demoCode, "Demo Casino", []string{"demo.casino.local"})
		if err := dataLayer.DomainRepo.Create(ctx, domain); err != nil {
			log.Fatalf("failed to create demo tenant: %v", err)
		}
		fmt.Printf("Demo tenant created with domain ID: %d\n", domain.DomainID)
	} else {
		domain, err := dataLayer.DomainRepo.GetByCode(ctx, demoCode)
		if err != nil {
			log.Fatalf("failed to get existing tenant: %v", err)
		}
		fmt.Printf("Demo tenant already exists with domain ID: %d\n", domain.DomainID)
	}

	fmt.Println("Bootstrap completed successfully.")
}
