package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDeleteOwnedReportsMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM coffee_records").
		WithArgs(42, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewCoffeeRepository(db)
	if err := repo.DeleteOwned(context.Background(), 42, 7); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteOwnedDeletesRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM coffee_records").
		WithArgs(42, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCoffeeRepository(db)
	if err := repo.DeleteOwned(context.Background(), 42, 7); err != nil {
		t.Errorf("delete: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSumForDateCoalescesToZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	date := time.Date(2026, time.March, 18, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(7, date).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	repo := NewCoffeeRepository(db)
	total, err := repo.SumForDate(context.Background(), 7, date)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLatestNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("ORDER BY timestamp DESC").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "date", "cups", "timestamp",
			"coffee_type", "size", "location", "notes", "created_at",
		}))

	repo := NewCoffeeRepository(db)
	if _, err := repo.Latest(context.Background(), 7); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
