package textblocks

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/koopstadt/impactcheck/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_textblocks_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Municipality{},
		&entities.User{},
		&entities.Tag{},
		&entities.TextBlock{},
	)
	require.NoError(t, err)

	repo, err := NewRepository(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func seedUser(t *testing.T, db *gorm.DB, municipalityID uint) *entities.User {
	require.NoError(t, db.FirstOrCreate(&entities.Municipality{ID: municipalityID, Name: "Testhausen"}).Error)
	user := &entities.User{
		Username:       "tester",
		Email:          "tester@example.org",
		Token:          "test-token",
		Role:           entities.RoleAdministration,
		MunicipalityID: municipalityID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRepository_TextBlockLifecycle(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, 1)
	tag := &entities.Tag{Label: "laerm", MunicipalityID: 1}
	require.NoError(t, db.Create(tag).Error)

	block, err := repo.CreateTextBlock(context.Background(), &entities.TextBlock{
		Label: "Hinweis Laermschutz",
	}, []uint{tag.ID}, user)
	require.NoError(t, err)
	assert.Equal(t, uint(1), block.MunicipalityID)
	require.Len(t, block.Tags, 1)

	updated, err := repo.UpdateTextBlock(context.Background(), block.ID, map[string]any{"label": "Hinweis Laerm"}, []uint{}, user)
	require.NoError(t, err)
	assert.Equal(t, "Hinweis Laerm", updated.Label)
	assert.Empty(t, updated.Tags)

	all, err := repo.GetAllForMunicipality(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.DeleteTextBlock(context.Background(), block.ID))

	// The tag outlives both the membership and the block.
	var survivor entities.Tag
	require.NoError(t, db.First(&survivor, tag.ID).Error)
}
