package repository

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

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dbPath := "./test_repository_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Municipality{},
		&entities.User{},
		&entities.Tag{},
		&entities.MainObjective{},
		&entities.SubObjective{},
		&entities.Indicator{},
		&entities.TextBlock{},
		&entities.MobilitySubmission{},
		&entities.MobilityResult{},
		&entities.MobilitySubresult{},
		&entities.ClimateSubmission{},
	)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func seedUser(t *testing.T, db *gorm.DB, municipalityID uint) *entities.User {
	municipality := &entities.Municipality{ID: municipalityID, Name: "Testhausen"}
	require.NoError(t, db.FirstOrCreate(municipality).Error)

	user := &entities.User{
		Username:       "tester-" + t.Name(),
		Email:          t.Name() + "@example.org",
		Token:          "token-" + t.Name(),
		Role:           entities.RoleAdministration,
		MunicipalityID: municipalityID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestNew_RejectsNonEntity(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	type notAnEntity struct{ ID uint }
	_, err := New[notAnEntity](db)
	assert.Error(t, err)
}

func TestRepository_Get(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := New[entities.Tag](db)
	require.NoError(t, err)

	user := seedUser(t, db, 1)
	tag := &entities.Tag{Label: "verkehr"}
	require.NoError(t, repo.Create(context.Background(), tag, user))

	got, err := repo.Get(context.Background(), tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "verkehr", got.Label)

	// Reading does not mutate; a second read returns the same record.
	again, err := repo.Get(context.Background(), tag.ID)
	require.NoError(t, err)
	assert.Equal(t, got.ID, again.ID)
	assert.Equal(t, got.Label, again.Label)
}

func TestRepository_Get_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := New[entities.Tag](db)
	require.NoError(t, err)

	_, err = repo.Get(context.Background(), 999)
	assert.True(t, IsNotFound(err))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Tag", nf.Entity)
}

func TestRepository_GetAll_EmptyIsNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := New[entities.Tag](db)
	require.NoError(t, err)

	_, err = repo.GetAll(context.Background(), nil, nil)
	assert.True(t, IsNotFound(err))
}

func TestRepository_GetAll_TenantScope(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := New[entities.Tag](db)
	require.NoError(t, err)

	userA := seedUser(t, db, 1)
	require.NoError(t, db.Create(&entities.Municipality{ID: 2, Name: "Otherstadt"}).Error)
	userB := &entities.User{Username: "other", Email: "other@example.org", Token: "other-token", Role: entities.RoleAdministration, MunicipalityID: 2}
	require.NoError(t, db.Create(userB).Error)

	require.NoError(t, repo.Create(context.Background(), &entities.Tag{Label: "a"}, userA))
	require.NoError(t, repo.Create(context.Background(), &entities.Tag{Label: "b"}, userB))

	municipalityID := uint(1)
	tags, err := repo.GetAll(context.Background(), &municipalityID, nil)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "a", tags[0].Label)
}

func TestRepository_Create_StampsPrincipal(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := New[entities.Indicator](db)
	require.NoError(t, err)

	user := seedUser(t, db, 7)

	// The payload claims another municipality; the principal wins.
	ind := &entities.Indicator{Label: "modal split", MunicipalityID: 42}
	require.NoError(t, repo.Create(context.Background(), ind, user))

	got, err := repo.Get(context.Background(), ind.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.MunicipalityID)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, user.ID, *got.CreatedBy)
	require.NotNil(t, got.LastEditedBy)
	assert.Equal(t, user.ID, *got.LastEditedBy)
}

func TestRepository_Create_WithoutPrincipal(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := New[entities.Tag](db)
	require.NoError(t, err)

	seedUser(t, db, 3)
	tag := &entities.Tag{Label: "klima", MunicipalityID: 3}
	require.NoError(t, repo.Create(context.Background(), tag, nil))

	got, err := repo.Get(context.Background(), tag.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.MunicipalityID)
}

func TestRepository_Update_PartialSemantics(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := New[entities.Indicator](db)
	require.NoError(t, err)

	user := seedUser(t, db, 1)
	ind := &entities.Indicator{Label: "cycle traffic", SourceURL: "https://example.org"}
	require.NoError(t, repo.Create(context.Background(), ind, user))

	// A key set to its zero value is applied; absent keys stay untouched.
	got, err := repo.Update(context.Background(), ind.ID, map[string]any{"source_url": ""}, user)
	require.NoError(t, err)
	assert.Equal(t, "", got.SourceURL)
	assert.Equal(t, "cycle traffic", got.Label)
}

func TestRepository_Update_StampsEditor(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := New[entities.Indicator](db)
	require.NoError(t, err)

	author := seedUser(t, db, 1)
	editor := &entities.User{Username: "editor", Email: "editor@example.org", Token: "editor-token", Role: entities.RoleAdministration, MunicipalityID: 1}
	require.NoError(t, db.Create(editor).Error)

	ind := &entities.Indicator{Label: "noise"}
	require.NoError(t, repo.Create(context.Background(), ind, author))

	got, err := repo.Update(context.Background(), ind.ID, map[string]any{"label": "noise level"}, editor)
	require.NoError(t, err)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, author.ID, *got.CreatedBy)
	require.NotNil(t, got.LastEditedBy)
	assert.Equal(t, editor.ID, *got.LastEditedBy)
}

func TestRepository_Update_ImmutableColumns(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := New[entities.Tag](db)
	require.NoError(t, err)

	user := seedUser(t, db, 1)
	tag := &entities.Tag{Label: "wasser"}
	require.NoError(t, repo.Create(context.Background(), tag, user))

	_, err = repo.Update(context.Background(), tag.ID, map[string]any{"id": 99}, user)
	assert.True(t, IsInvalidField(err))

	_, err = repo.Update(context.Background(), tag.ID, map[string]any{"municipality_id": 99}, user)
	assert.True(t, IsInvalidField(err))

	_, err = repo.Update(context.Background(), tag.ID, map[string]any{"no_such_column": 1}, user)
	assert.True(t, IsInvalidField(err))

	// Nothing was changed along the way.
	got, err := repo.Get(context.Background(), tag.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.MunicipalityID)
	assert.Equal(t, "wasser", got.Label)
}

func TestRepository_Update_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := New[entities.Tag](db)
	require.NoError(t, err)

	_, err = repo.Update(context.Background(), 12345, map[string]any{"label": "x"}, nil)
	assert.True(t, IsNotFound(err))
}

func TestRepository_Delete_CascadesOwnedChildren(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := New[entities.MainObjective](db)
	require.NoError(t, err)

	user := seedUser(t, db, 1)
	obj := &entities.MainObjective{
		No:    1,
		Label: "Stadt der kurzen Wege",
		SubObjectives: []entities.SubObjective{
			{No: 1, Label: "Nahversorgung", MunicipalityID: 1},
			{No: 2, Label: "Erreichbarkeit", MunicipalityID: 1},
		},
	}
	require.NoError(t, repo.Create(context.Background(), obj, user))

	require.NoError(t, repo.Delete(context.Background(), obj.ID))

	_, err = repo.Get(context.Background(), obj.ID)
	assert.True(t, IsNotFound(err))

	var count int64
	require.NoError(t, db.Model(&entities.SubObjective{}).Where("main_objective_id = ?", obj.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepository_Delete_DetachesAssociations(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := New[entities.Indicator](db)
	require.NoError(t, err)

	user := seedUser(t, db, 1)
	tag := &entities.Tag{Label: "luft", MunicipalityID: 1}
	require.NoError(t, db.Create(tag).Error)

	ind := &entities.Indicator{Label: "NO2"}
	require.NoError(t, repo.CreateWithAssociations(context.Background(), ind, user, []Assoc{{Name: "Tags", IDs: []uint{tag.ID}}}))

	require.NoError(t, repo.Delete(context.Background(), ind.ID))

	// The tag survives, only the membership row is gone.
	var survivor entities.Tag
	require.NoError(t, db.First(&survivor, tag.ID).Error)

	var count int64
	require.NoError(t, db.Table("indicator_tags").Where("indicator_id = ?", ind.ID).Count(&count).Error)
	assert.Zero(t, count)
}
