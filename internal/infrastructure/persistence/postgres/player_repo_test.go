package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/domain/repository"
	apperrors "casino-platform-api/pkg/errors"
)

func newMockRepo(t *testing.T) (*PlayerRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewPlayerRepository(NewClientWithDB(db)), mock
}

func playerColumns() []string {
	return []string{"id", "domain_id", "username", "email", "status", "created_at", "updated_at"}
}

func TestPlayerGetByIDScopedToDomain(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "players" WHERE domain_id = \$1 AND id = \$2`).
		WithArgs(int64(7), "player-1", 1).
		WillReturnRows(sqlmock.NewRows(playerColumns()).
			AddRow("player-1", int64(7), "highroller", "hr@example.com", "active", now, now))

	player, err := repo.GetByID(context.Background(), 7, "player-1")
	require.NoError(t, err)
	require.NotNil(t, player)
	assert.Equal(t, int64(7), player.DomainID)
	assert.Equal(t, "highroller", player.Username)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlayerGetByIDOtherDomainNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "players" WHERE domain_id = \$1 AND id = \$2`).
		WithArgs(int64(99), "player-1", 1).
		WillReturnRows(sqlmock.NewRows(playerColumns()))

	player, err := repo.GetByID(context.Background(), 99, "player-1")
	require.NoError(t, err)
	assert.Nil(t, player)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlayerCreateRequiresDomain(t *testing.T) {
	repo, _ := newMockRepo(t)

	player := entity.NewPlayer(0, "stray", "stray@example.com")
	err := repo.Create(context.Background(), player)
	assert.ErrorIs(t, err, apperrors.ErrDomainMismatch)
}

func TestPlayerListScopedToDomain(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "players" WHERE domain_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery(`SELECT \* FROM "players" WHERE domain_id = \$1 ORDER BY created_at DESC`).
		WithArgs(int64(7), 20).
		WillReturnRows(sqlmock.NewRows(playerColumns()).
			AddRow("player-1", int64(7), "highroller", "hr@example.com", "active", now, now).
			AddRow("player-2", int64(7), "grinder", "g@example.com", "active", now, now))

	result, err := repo.List(context.Background(), 7, repository.Pagination{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	assert.Len(t, result.Items, 2)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlayerUpdateMissesOtherDomain(t *testing.T) {
	repo, mock := newMockRepo(t)

	player := entity.NewPlayer(99, "ghost", "ghost@example.com")
	player.ID = "player-1"

	mock.ExpectExec(`UPDATE "players" SET .* WHERE domain_id = \$\d+ AND id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), player)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlayerDeleteScopedToDomain(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM "players" WHERE domain_id = \$1 AND id = \$2`).
		WithArgs(int64(7), "player-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 7, "player-1")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSessionRejectsForeignParent(t *testing.T) {
	repo, mock := newMockRepo(t)

	// 父玩家在会话声称的租户域内不存在
	mock.ExpectQuery(`SELECT \* FROM "players" WHERE domain_id = \$1 AND id = \$2`).
		WithArgs(int64(99), "player-1", 1).
		WillReturnRows(sqlmock.NewRows(playerColumns()))

	session := &entity.PlayerSession{
		ID:        "session-1",
		DomainID:  99,
		PlayerID:  "player-1",
		StartedAt: time.Now(),
	}
	err := repo.CreateSession(context.Background(), session)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
