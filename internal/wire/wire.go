//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"casino-platform-api/internal/config"
	"casino-platform-api/internal/interfaces/http/router"
)

// InitializeDataLayer 仅初始化 PostgreSQL 数据层
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		wire.Struct(new(DataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		EngineSet,
		RouterSet,
	)
	return nil, nil, nil
}
