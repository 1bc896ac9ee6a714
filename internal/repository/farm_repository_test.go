package repository

import (
	"context"
	"testing"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var farmCols = []string{"id", "organization_id", "name", "center", "created_at", "updated_at", "deleted_at"}

func TestFarmRepository_FindByIDAndOrganization(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFarmRepository(db, zap.NewNop())

	id, orgID := uuid.New(), uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`WHERE id = \$1 AND organization_id = \$2 AND deleted_at IS NULL`).
		WithArgs(id, orgID).
		WillReturnRows(sqlmock.NewRows(farmCols).AddRow(id.String(), orgID.String(), "La Esperanza", nil, now, now, nil))

	farm, err := repo.FindByIDAndOrganization(context.Background(), id, orgID)

	require.NoError(t, err)
	assert.Equal(t, "La Esperanza", farm.Name)
	assert.Nil(t, farm.Center)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFarmRepository_FindByIDAndOrganization_OtherTenant(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFarmRepository(db, zap.NewNop())

	mock.ExpectQuery(`FROM farms`).WillReturnRows(sqlmock.NewRows(farmCols))

	_, err := repo.FindByIDAndOrganization(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFarmRepository_Create_WithCenter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFarmRepository(db, zap.NewNop())

	orgID := uuid.New()
	mock.ExpectExec(`INSERT INTO farms`).
		WithArgs(sqlmock.AnyArg(), orgID, "San José", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	farm := &models.Farm{OrganizationID: orgID, Name: "San José", Center: models.NewGeoJSONPoint(-58.1, -34.6)}
	err := repo.Create(context.Background(), farm)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, farm.ID)
	assert.False(t, farm.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
