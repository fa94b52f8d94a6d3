package objectives

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
	dbPath := "./test_objectives_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Municipality{},
		&entities.User{},
		&entities.MainObjective{},
		&entities.SubObjective{},
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

func TestRepository_CreateMainObjective_StampsTenant(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, 7)

	created, err := repo.CreateMainObjective(context.Background(), &entities.MainObjective{
		No:    1,
		Label: "Stadt der kurzen Wege",
	}, user)

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, uint(7), created.MunicipalityID)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, user.ID, *created.CreatedBy)
}

func TestRepository_SubObjectiveLifecycle(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, 7)
	main, err := repo.CreateMainObjective(context.Background(), &entities.MainObjective{No: 1, Label: "Umweltverbund"}, user)
	require.NoError(t, err)

	sub, err := repo.CreateSubObjective(context.Background(), &entities.SubObjective{
		No:              1,
		Label:           "Radnetz",
		MainObjectiveID: main.ID,
	}, user)
	require.NoError(t, err)
	assert.Equal(t, uint(7), sub.MunicipalityID)

	reloaded, err := repo.GetMainObjective(context.Background(), main.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.SubObjectives, 1)
	assert.Equal(t, "Radnetz", reloaded.SubObjectives[0].Label)

	updated, err := repo.UpdateSubObjective(context.Background(), sub.ID, map[string]any{"label": "Radverkehrsnetz"}, user)
	require.NoError(t, err)
	assert.Equal(t, "Radverkehrsnetz", updated.Label)

	require.NoError(t, repo.DeleteSubObjective(context.Background(), sub.ID))
	_, err = repo.GetSubObjective(context.Background(), sub.ID)
	assert.True(t, repository.IsNotFound(err))
}

func TestRepository_GetAllForMunicipality_OrderedByNo(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, 7)

	_, err := repo.CreateMainObjective(context.Background(), &entities.MainObjective{No: 2, Label: "Verkehrssicherheit"}, user)
	require.NoError(t, err)
	first, err := repo.CreateMainObjective(context.Background(), &entities.MainObjective{No: 1, Label: "Stadt der kurzen Wege"}, user)
	require.NoError(t, err)

	for _, no := range []int{3, 1, 2} {
		_, err := repo.CreateSubObjective(context.Background(), &entities.SubObjective{
			No:              no,
			Label:           "Teilziel",
			MainObjectiveID: first.ID,
		}, user)
		require.NoError(t, err)
	}

	all, err := repo.GetAllForMunicipality(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].No)
	assert.Equal(t, 2, all[1].No)

	require.Len(t, all[0].SubObjectives, 3)
	assert.Equal(t, 1, all[0].SubObjectives[0].No)
	assert.Equal(t, 2, all[0].SubObjectives[1].No)
	assert.Equal(t, 3, all[0].SubObjectives[2].No)
}

func TestRepository_GetSubObjectivesFor(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, 7)
	main, err := repo.CreateMainObjective(context.Background(), &entities.MainObjective{No: 1, Label: "Umweltverbund"}, user)
	require.NoError(t, err)

	for _, no := range []int{2, 1} {
		_, err := repo.CreateSubObjective(context.Background(), &entities.SubObjective{
			No:              no,
			Label:           "Teilziel",
			MainObjectiveID: main.ID,
		}, user)
		require.NoError(t, err)
	}

	subs, err := repo.GetSubObjectivesFor(context.Background(), main.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, 1, subs[0].No)
	assert.Equal(t, 2, subs[1].No)
}

func TestRepository_DeleteMainObjective_RemovesSubObjectives(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, 7)
	main, err := repo.CreateMainObjective(context.Background(), &entities.MainObjective{No: 1, Label: "Umweltverbund"}, user)
	require.NoError(t, err)

	sub, err := repo.CreateSubObjective(context.Background(), &entities.SubObjective{
		No:              1,
		Label:           "Radnetz",
		MainObjectiveID: main.ID,
	}, user)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteMainObjective(context.Background(), main.ID))

	_, err = repo.GetSubObjective(context.Background(), sub.ID)
	assert.True(t, repository.IsNotFound(err))
}
