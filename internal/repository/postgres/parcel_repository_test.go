package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/landsearch-microservice/internal/domain"
	"github.com/landsearch-microservice/internal/domain/repository"
	"github.com/landsearch-microservice/internal/pkg/errors"
	"github.com/landsearch-microservice/internal/repository/postgres/testhelpers"
)

// ParcelRepositoryTestSuite tests all methods of ParcelRepository
type ParcelRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.ParcelRepository
	ctx    context.Context
}

// SetupSuite runs once before all tests in the suite
func (s *ParcelRepositoryTestSuite) SetupSuite() {
	// Initialize test database connection
	s.testDB = testhelpers.SetupTestDB(s.T())

	// Apply migrations (idempotent, tables may already exist)
	err := testhelpers.ApplyMigrations(
		s.testDB.DB.DB,
		"../../../migrations",
	)
	s.Require().NoError(err, "Failed to apply migrations")

	// Create repository using test helper that wraps DB with logger
	s.repo = testhelpers.NewParcelRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

// TearDownSuite runs once after all tests in the suite
func (s *ParcelRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

// SetupTest runs before each test. Every test starts from empty tables.
func (s *ParcelRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	err := s.testDB.Cleanup(s.ctx)
	s.Require().NoError(err, "Failed to cleanup test database")
}

// storedParcel builds a minimal processed parcel for persistence tests
func storedParcel(id, plotNumber, region string, owners []string) *domain.ProcessedParcel {
	lat := 12.1498
	lon := 3.9820
	area := 0.25
	return &domain.ProcessedParcel{
		ID: id,
		PlotInfo: &domain.PlotInfo{
			PlotNumber: plotNumber,
			Area:       &area,
			Metric:     "Acres",
			Region:     region,
			Owners:     owners,
		},
		PointList: []domain.ConvertedCoords{
			{Latitude: &lat, Longitude: &lon},
		},
	}
}

// ============================================================================
// Store Tests
// ============================================================================

func (s *ParcelRepositoryTestSuite) TestStore_Success() {
	// Arrange
	parcel := storedParcel("doc-100", "TN/1042", "Greater Accra", []string{"Ama Mensah"})

	// Act
	rowID, err := s.repo.Store(s.ctx, parcel, "user-1")

	// Assert
	s.NoError(err)
	s.NotEmpty(rowID)

	// Document keeps answering to its embedded id after approval
	got, err := s.repo.GetByID(s.ctx, "doc-100")
	s.NoError(err)
	s.Equal("doc-100", got.ID)
	s.Equal("TN/1042", got.PlotInfo.PlotNumber)

	// The storage row id resolves to the same document
	byRow, err := s.repo.GetByID(s.ctx, rowID)
	s.NoError(err)
	s.Equal("doc-100", byRow.ID)
}

func (s *ParcelRepositoryTestSuite) TestStore_RemovesStagingRow() {
	// Arrange - a parcel awaiting review in the staging table
	stagingID, err := testhelpers.InsertStagingParcel(
		s.testDB.DB.DB, "user-1", "upload-1", "plan.pdf",
		domain.ParcelStatusUnprocessed,
		storedParcel("", "TN/1042", "Greater Accra", nil),
	)
	s.Require().NoError(err)

	parcel := storedParcel(stagingID, "TN/1042", "Greater Accra", nil)

	// Act - approving stores the parcel and drops the staging row
	rowID, err := s.repo.Store(s.ctx, parcel, "user-1")

	// Assert
	s.NoError(err)
	s.NotEmpty(rowID)

	count, err := testhelpers.CountStagingRows(s.testDB.DB.DB, stagingID)
	s.NoError(err)
	s.Equal(0, count)
}

func (s *ParcelRepositoryTestSuite) TestStore_WithoutID() {
	// Arrange - ad hoc parcel with no document id
	parcel := storedParcel("", "TN/2001", "Ashanti", nil)

	// Act
	rowID, err := s.repo.Store(s.ctx, parcel, "user-2")

	// Assert - the row id becomes the document id on load
	s.NoError(err)
	got, err := s.repo.GetByID(s.ctx, rowID)
	s.NoError(err)
	s.Equal(rowID, got.ID)
}

// ============================================================================
// GetByID Tests
// ============================================================================

func (s *ParcelRepositoryTestSuite) TestGetByID_NotFound() {
	// Act
	parcel, err := s.repo.GetByID(s.ctx, "999999")

	// Assert
	s.Nil(parcel)
	s.ErrorIs(err, errors.ErrParcelNotFound)
}

// ============================================================================
// List Tests
// ============================================================================

func (s *ParcelRepositoryTestSuite) TestList_Empty() {
	// Act
	parcels, err := s.repo.List(s.ctx)

	// Assert
	s.NoError(err)
	s.NotNil(parcels)
	s.Len(parcels, 0)
}

func (s *ParcelRepositoryTestSuite) TestList_ReturnsAllApproved() {
	// Arrange
	_, err := testhelpers.InsertApprovedParcel(s.testDB.DB.DB, "user-1", nil,
		storedParcel("doc-1", "TN/1", "Greater Accra", nil))
	s.Require().NoError(err)
	_, err = testhelpers.InsertApprovedParcel(s.testDB.DB.DB, "user-2", nil,
		storedParcel("doc-2", "TN/2", "Ashanti", nil))
	s.Require().NoError(err)

	// Act
	parcels, err := s.repo.List(s.ctx)

	// Assert
	s.NoError(err)
	s.Len(parcels, 2)
	s.Equal("doc-1", parcels[0].ID)
	s.Equal("doc-2", parcels[1].ID)
}

func (s *ParcelRepositoryTestSuite) TestList_SkipsUndecodableRows() {
	// Arrange - one well formed document, one with a mangled plot_info
	_, err := testhelpers.InsertApprovedParcel(s.testDB.DB.DB, "user-1", nil,
		storedParcel("doc-1", "TN/1", "Greater Accra", nil))
	s.Require().NoError(err)
	_, err = testhelpers.InsertApprovedJSON(s.testDB.DB.DB, "user-1", nil,
		`{"id": "doc-bad", "plot_info": 42}`)
	s.Require().NoError(err)

	// Act
	parcels, err := s.repo.List(s.ctx)

	// Assert - the bad row is skipped, not fatal
	s.NoError(err)
	s.Len(parcels, 1)
	s.Equal("doc-1", parcels[0].ID)
}

func (s *ParcelRepositoryTestSuite) TestListByUser_FiltersByUser() {
	// Arrange
	_, err := testhelpers.InsertApprovedParcel(s.testDB.DB.DB, "user-1", nil,
		storedParcel("doc-1", "TN/1", "Greater Accra", nil))
	s.Require().NoError(err)
	_, err = testhelpers.InsertApprovedParcel(s.testDB.DB.DB, "user-2", nil,
		storedParcel("doc-2", "TN/2", "Ashanti", nil))
	s.Require().NoError(err)

	// Act
	parcels, err := s.repo.ListByUser(s.ctx, "user-1")

	// Assert
	s.NoError(err)
	s.Len(parcels, 1)
	s.Equal("doc-1", parcels[0].ID)
}

func (s *ParcelRepositoryTestSuite) TestListByOwner_MatchesOwnerArray() {
	// Arrange
	_, err := testhelpers.InsertApprovedParcel(s.testDB.DB.DB, "user-1",
		[]string{"Ama Mensah", "Kofi Boateng"},
		storedParcel("doc-1", "TN/1", "Greater Accra", []string{"Ama Mensah", "Kofi Boateng"}))
	s.Require().NoError(err)
	_, err = testhelpers.InsertApprovedParcel(s.testDB.DB.DB, "user-1",
		[]string{"Yaw Darko"},
		storedParcel("doc-2", "TN/2", "Ashanti", []string{"Yaw Darko"}))
	s.Require().NoError(err)

	// Act
	parcels, err := s.repo.ListByOwner(s.ctx, "Kofi Boateng")

	// Assert
	s.NoError(err)
	s.Len(parcels, 1)
	s.Equal("doc-1", parcels[0].ID)

	// Partial names do not match
	none, err := s.repo.ListByOwner(s.ctx, "Kofi")
	s.NoError(err)
	s.Len(none, 0)
}

// ============================================================================
// ListStaging Tests
// ============================================================================

func (s *ParcelRepositoryTestSuite) TestListStaging_FiltersByUserUploadAndStatus() {
	// Arrange
	_, err := testhelpers.InsertStagingParcel(s.testDB.DB.DB, "user-1", "upload-1", "a.pdf",
		domain.ParcelStatusUnprocessed, storedParcel("", "TN/1", "Greater Accra", nil))
	s.Require().NoError(err)
	_, err = testhelpers.InsertStagingParcel(s.testDB.DB.DB, "user-1", "upload-2", "b.pdf",
		domain.ParcelStatusUnprocessed, storedParcel("", "TN/2", "Greater Accra", nil))
	s.Require().NoError(err)
	_, err = testhelpers.InsertStagingParcel(s.testDB.DB.DB, "user-1", "upload-1", "c.pdf",
		domain.ParcelStatusFailed, storedParcel("", "c.pdf", "", nil))
	s.Require().NoError(err)
	_, err = testhelpers.InsertStagingParcel(s.testDB.DB.DB, "user-2", "upload-3", "d.pdf",
		domain.ParcelStatusUnprocessed, storedParcel("", "TN/4", "Ashanti", nil))
	s.Require().NoError(err)

	// Act - one user's pending parcels for one upload session
	parcels, err := s.repo.ListStaging(s.ctx, "user-1", "upload-1", domain.ParcelStatusUnprocessed)

	// Assert
	s.NoError(err)
	s.Len(parcels, 1)
	s.Equal("TN/1", parcels[0].PlotInfo.PlotNumber)

	// Empty upload id means any upload session
	parcels, err = s.repo.ListStaging(s.ctx, "user-1", "", domain.ParcelStatusUnprocessed)
	s.NoError(err)
	s.Len(parcels, 2)

	// Failed uploads are a separate status
	parcels, err = s.repo.ListStaging(s.ctx, "user-1", "", domain.ParcelStatusFailed)
	s.NoError(err)
	s.Len(parcels, 1)
	s.Equal("c.pdf", parcels[0].PlotInfo.PlotNumber)
}

func (s *ParcelRepositoryTestSuite) TestListStaging_AlwaysUsesRowID() {
	// Arrange - staging document carrying a stale embedded id
	rowID, err := testhelpers.InsertStagingParcel(s.testDB.DB.DB, "user-1", "upload-1", "a.pdf",
		domain.ParcelStatusUnprocessed, storedParcel("stale-uuid", "TN/1", "Greater Accra", nil))
	s.Require().NoError(err)

	// Act
	parcels, err := s.repo.ListStaging(s.ctx, "user-1", "upload-1", domain.ParcelStatusUnprocessed)

	// Assert - review and approval key on the row id, never the document
	s.NoError(err)
	s.Len(parcels, 1)
	s.Equal(rowID, parcels[0].ID)
}

// ============================================================================
// Update Tests
// ============================================================================

func (s *ParcelRepositoryTestSuite) TestUpdate_Success() {
	// Arrange
	parcel := storedParcel("doc-1", "TN/1", "Greater Accra", nil)
	_, err := s.repo.Store(s.ctx, parcel, "user-1")
	s.Require().NoError(err)

	parcel.PlotInfo.Region = "Volta"
	parcel.PlotInfo.Owners = []string{"Esi Appiah"}

	// Act
	err = s.repo.Update(s.ctx, parcel)

	// Assert
	s.NoError(err)

	got, err := s.repo.GetByID(s.ctx, "doc-1")
	s.NoError(err)
	s.Equal("Volta", got.PlotInfo.Region)

	// The owners column follows the document
	byOwner, err := s.repo.ListByOwner(s.ctx, "Esi Appiah")
	s.NoError(err)
	s.Len(byOwner, 1)
}

func (s *ParcelRepositoryTestSuite) TestUpdate_NotFound() {
	// Act
	err := s.repo.Update(s.ctx, storedParcel("missing", "TN/1", "", nil))

	// Assert
	s.ErrorIs(err, errors.ErrParcelNotFound)
}

func (s *ParcelRepositoryTestSuite) TestUpdateStaging_Success() {
	// Arrange
	rowID, err := testhelpers.InsertStagingParcel(s.testDB.DB.DB, "user-1", "upload-1", "a.pdf",
		domain.ParcelStatusUnprocessed, storedParcel("", "TN/1", "Greater Accra", nil))
	s.Require().NoError(err)

	updated := storedParcel(rowID, "TN/1", "Eastern", nil)

	// Act
	err = s.repo.UpdateStaging(s.ctx, updated)

	// Assert
	s.NoError(err)

	parcels, err := s.repo.ListStaging(s.ctx, "user-1", "upload-1", domain.ParcelStatusUnprocessed)
	s.NoError(err)
	s.Len(parcels, 1)
	s.Equal("Eastern", parcels[0].PlotInfo.Region)
}

func (s *ParcelRepositoryTestSuite) TestUpdateStaging_NotFound() {
	// Act
	err := s.repo.UpdateStaging(s.ctx, storedParcel("999999", "TN/1", "", nil))

	// Assert
	s.ErrorIs(err, errors.ErrParcelNotFound)
}

// ============================================================================
// Delete Tests
// ============================================================================

func (s *ParcelRepositoryTestSuite) TestDelete_ByDocumentID() {
	// Arrange
	_, err := s.repo.Store(s.ctx, storedParcel("doc-1", "TN/1", "Greater Accra", nil), "user-1")
	s.Require().NoError(err)

	// Act
	err = s.repo.Delete(s.ctx, "doc-1")

	// Assert
	s.NoError(err)
	_, err = s.repo.GetByID(s.ctx, "doc-1")
	s.ErrorIs(err, errors.ErrParcelNotFound)
}

func (s *ParcelRepositoryTestSuite) TestDelete_NotFound() {
	// Act
	err := s.repo.Delete(s.ctx, "999999")

	// Assert
	s.ErrorIs(err, errors.ErrParcelNotFound)
}

func (s *ParcelRepositoryTestSuite) TestDeleteStaging_Success() {
	// Arrange
	rowID, err := testhelpers.InsertStagingParcel(s.testDB.DB.DB, "user-1", "upload-1", "a.pdf",
		domain.ParcelStatusUnprocessed, storedParcel("", "TN/1", "Greater Accra", nil))
	s.Require().NoError(err)

	// Act
	err = s.repo.DeleteStaging(s.ctx, rowID)

	// Assert
	s.NoError(err)
	count, err := testhelpers.CountStagingRows(s.testDB.DB.DB, rowID)
	s.NoError(err)
	s.Equal(0, count)
}

func (s *ParcelRepositoryTestSuite) TestDeleteStaging_NotFound() {
	// Act
	err := s.repo.DeleteStaging(s.ctx, "999999")

	// Assert
	s.ErrorIs(err, errors.ErrParcelNotFound)
}

// ============================================================================
// Test Suite Runner
// ============================================================================

func TestParcelRepositorySuite(t *testing.T) {
	suite.Run(t, new(ParcelRepositoryTestSuite))
}
