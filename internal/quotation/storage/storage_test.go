package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotation-workers/internal/common/errors"
	"quotation-workers/internal/common/logger"
	"quotation-workers/internal/models"
)

// ==========================
// Test Helpers
// ==========================

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func createTestRecord() models.QuotationRecord {
	return models.NewQuotationRecord(models.QuotationRequest{
		FullName:           "Jane Doe",
		CompanyName:        "Acme Ltd",
		Email:              "jane@acme.test",
		Phone:              "+27 21 555 0100",
		Address:            "1 Main Road, Cape Town",
		ProjectCategory:    "Web Development",
		ProjectDescription: "Customer portal",
		Timeline:           "3-6 months",
		BudgetRange:        "R100k-R250k",
		ServiceType:        models.ServiceTypeOneTime,
	}, "VXN-JD-2025-042", time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))
}

// ==========================
// Save
// ==========================

func TestSave_InsertsQuotationAndAudit(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db, logger.NewTestLogger(t))
	record := createTestRecord()

	mock.ExpectExec("INSERT INTO quotations").
		WithArgs(
			"VXN-JD-2025-042", "Jane Doe", "Acme Ltd", "jane@acme.test", "+27 21 555 0100",
			"1 Main Road, Cape Town",
			sql.NullString{}, sql.NullString{},
			"Web Development", sql.NullString{},
			"Customer portal", "3-6 months",
			sql.NullString{String: "R100k-R250k", Valid: true}, sql.NullString{},
			"one-time", StatusSubmitted, record.SubmissionDate,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs("quotation_submitted", "VXN-JD-2025-042", sqlmock.AnyArg(), record.SubmissionDate).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Save(context.Background(), record)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_InsertFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db, logger.NewTestLogger(t))

	mock.ExpectExec("INSERT INTO quotations").
		WillReturnError(stderrors.New("duplicate key value violates unique constraint"))

	err := store.Save(context.Background(), createTestRecord())

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeDatabaseInsertFailed, stdErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_AuditFailureIsNotFatal(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db, logger.NewTestLogger(t))

	mock.ExpectExec("INSERT INTO quotations").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_log").WillReturnError(stderrors.New("relation does not exist"))

	err := store.Save(context.Background(), createTestRecord())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// List
// ==========================

func TestList(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db, logger.NewTestLogger(t))
	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	submitted := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"reference_number", "full_name", "company_name", "email", "phone",
		"project_category", "service_type", "timeline",
		"budget_range", "referral_source", "status", "submitted_at",
	}).
		AddRow("VXN-JD-2025-042", "Jane Doe", "Acme Ltd", "jane@acme.test", "+27 21 555 0100",
			"Web Development", "one-time", "3-6 months", "R100k-R250k", "", "submitted", submitted).
		AddRow("VXN-JS-2025-007", "John Smith", "Beta Inc", "john@beta.test", "+27 11 555 0199",
			"Mobile App", "saas", "1-3 months", "", "LinkedIn", "submitted", submitted.Add(time.Hour))

	mock.ExpectQuery("SELECT reference_number").WithArgs(since).WillReturnRows(rows)

	list, err := store.List(context.Background(), since)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "VXN-JD-2025-042", list[0].ReferenceNumber)
	assert.Equal(t, models.ServiceTypeOneTime, list[0].ServiceType)
	assert.Equal(t, models.ServiceTypeSaaS, list[1].ServiceType)
	assert.Equal(t, "LinkedIn", list[1].ReferralSource)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPostgresStore(db, logger.NewTestLogger(t))

	mock.ExpectQuery("SELECT reference_number").WillReturnError(stderrors.New("connection reset"))

	_, err := store.List(context.Background(), time.Time{})

	assert.ErrorContains(t, err, "list quotations")
}

// ==========================
// Redis Reserver
// ==========================

func TestRedisReserver_Reserve(t *testing.T) {
	mr, client := setupRedis(t)
	r := NewRedisReserver(client)
	ctx := context.Background()

	ok, err := r.Reserve(ctx, "VXN-JD-2025-042", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists(referenceKeyPrefix+"VXN-JD-2025-042"))
	assert.Equal(t, time.Hour, mr.TTL(referenceKeyPrefix+"VXN-JD-2025-042"))

	ok, err = r.Reserve(ctx, "VXN-JD-2025-042", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "second claim must lose")
}

func TestRedisReserver_ExpiredReservationIsReusable(t *testing.T) {
	mr, client := setupRedis(t)
	r := NewRedisReserver(client)
	ctx := context.Background()

	_, err := r.Reserve(ctx, "VXN-JD-2025-042", time.Minute)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	ok, err := r.Reserve(ctx, "VXN-JD-2025-042", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisReserver_ServerDown(t *testing.T) {
	mr, client := setupRedis(t)
	r := NewRedisReserver(client)
	mr.Close()

	ok, err := r.Reserve(context.Background(), "VXN-JD-2025-042", time.Hour)

	assert.Error(t, err)
	assert.False(t, ok)
}
