package indicators

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/koopstadt/impactcheck/internal/database/repository"
	"github.com/koopstadt/impactcheck/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_indicators_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Municipality{},
		&entities.User{},
		&entities.Tag{},
		&entities.Indicator{},
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

func seedTag(t *testing.T, db *gorm.DB, label string) *entities.Tag {
	tag := &entities.Tag{Label: label, MunicipalityID: 1}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func TestRepository_CreateIndicator_WithTags(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, 1)
	tag := seedTag(t, db, "verkehr")

	ind, err := repo.CreateIndicator(context.Background(), &entities.Indicator{
		Label:     "modal split",
		SourceURL: "https://mobilitaet.example.org",
	}, []uint{tag.ID}, user)

	require.NoError(t, err)
	assert.NotZero(t, ind.ID)
	assert.Equal(t, uint(1), ind.MunicipalityID)
	require.Len(t, ind.Tags, 1)
	assert.Equal(t, "verkehr", ind.Tags[0].Label)
}

func TestRepository_GetByTagLabel(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, 1)
	verkehr := seedTag(t, db, "verkehr")
	klima := seedTag(t, db, "klima")

	_, err := repo.CreateIndicator(context.Background(), &entities.Indicator{Label: "modal split"}, []uint{verkehr.ID}, user)
	require.NoError(t, err)
	_, err = repo.CreateIndicator(context.Background(), &entities.Indicator{Label: "CO2 pro Kopf"}, []uint{klima.ID}, user)
	require.NoError(t, err)

	got, err := repo.GetByTagLabel(context.Background(), 1, "verkehr")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "modal split", got[0].Label)
}

func TestRepository_UpdateIndicator_ReplacesTags(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, 1)
	verkehr := seedTag(t, db, "verkehr")
	klima := seedTag(t, db, "klima")

	ind, err := repo.CreateIndicator(context.Background(), &entities.Indicator{Label: "modal split"}, []uint{verkehr.ID}, user)
	require.NoError(t, err)

	updated, err := repo.UpdateIndicator(context.Background(), ind.ID, map[string]any{"label": "Modal Split"}, []uint{klima.ID}, user)
	require.NoError(t, err)
	assert.Equal(t, "Modal Split", updated.Label)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "klima", updated.Tags[0].Label)
}

func TestRepository_UpdateIndicator_NilTagsUntouched(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, 1)
	verkehr := seedTag(t, db, "verkehr")

	ind, err := repo.CreateIndicator(context.Background(), &entities.Indicator{Label: "modal split"}, []uint{verkehr.ID}, user)
	require.NoError(t, err)

	updated, err := repo.UpdateIndicator(context.Background(), ind.ID, map[string]any{"source_url": "https://example.org"}, nil, user)
	require.NoError(t, err)
	assert.Len(t, updated.Tags, 1)
}

func TestRepository_DeleteIndicator_TagsSurvive(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, 1)
	tag := seedTag(t, db, "verkehr")

	ind, err := repo.CreateIndicator(context.Background(), &entities.Indicator{Label: "modal split"}, []uint{tag.ID}, user)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteIndicator(context.Background(), ind.ID))

	_, err = repo.GetIndicator(context.Background(), ind.ID)
	assert.True(t, repository.IsNotFound(err))

	var survivor entities.Tag
	require.NoError(t, db.First(&survivor, tag.ID).Error)
}
