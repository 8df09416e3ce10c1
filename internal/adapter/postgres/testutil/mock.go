// Package testutil provides a pgxmock-backed Querier for repository unit
// tests that must run without a real database.
package testutil

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/mlevkov/faqpress-backend/internal/adapter/postgres"
)

// NewMockQuerier returns a Querier backed by pgxmock together with the mock
// handle used to program expectations.
func NewMockQuerier(t *testing.T) (postgres.Querier, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("testutil: create pgxmock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock, mock
}

// ExpectationsWereMet fails the test if programmed expectations were not
// fully consumed.
func ExpectationsWereMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet pgxmock expectations: %v", err)
	}
}
