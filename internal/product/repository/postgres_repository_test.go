package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/ridloal/product-catalog/internal/platform/database"
	"github.com/ridloal/product-catalog/internal/product/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "category_id", "name", "description", "stock", "price", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (ProductRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresProductRepository(db), mock
}

func TestPostgresProductRepository_CreateProduct(t *testing.T) {
	ctx := context.TODO()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Uncategorised product stores NULL and returns the stored row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`INSERT INTO products`).
			WithArgs(nil, "Loose", "", int64(3), "9.9").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(11), nil, "Loose", "", int64(3), "9.90", now, now))

		p := &domain.Product{Name: "Loose", Stock: 3, Price: decimal.RequireFromString("9.9")}
		require.NoError(t, repo.CreateProduct(ctx, p))
		assert.Equal(t, int64(11), p.ID)
		assert.Equal(t, int64(0), p.CategoryID)
		assert.Equal(t, "9.90", p.Price.StringFixed(2))
		assert.Equal(t, now, p.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "Unknown category", dbErr: &pq.Error{Code: pq.ErrorCode(database.CodeForeignKeyViolation)}, wantErr: ErrCategoryNotFound},
		{name: "Check constraint", dbErr: &pgconn.PgError{Code: database.CodeCheckViolation}, wantErr: ErrConstraintViolation},
		{name: "Numeric overflow", dbErr: &pgconn.PgError{Code: database.CodeNumericOutOfRange}, wantErr: ErrValueOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectQuery(`INSERT INTO products`).
				WithArgs(int64(9), "Widget", "", int64(1), "1").
				WillReturnError(tt.dbErr)

			p := &domain.Product{CategoryID: 9, Name: "Widget", Stock: 1, Price: decimal.NewFromInt(1)}
			assert.ErrorIs(t, repo.CreateProduct(ctx, p), tt.wantErr)
			assert.Equal(t, int64(0), p.ID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresProductRepository_GetProductByID(t *testing.T) {
	ctx := context.TODO()
	now := time.Now().UTC()

	t.Run("NULL category scans as zero", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1`).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(4), nil, "Widget", "d", int64(2), "1.50", now, now))

		p, err := repo.GetProductByID(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(0), p.CategoryID)
		assert.True(t, p.Price.Equal(decimal.RequireFromString("1.5")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetProductByID(ctx, 5)
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresProductRepository_ListProducts(t *testing.T) {
	ctx := context.TODO()
	now := time.Now().UTC()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM products WHERE category_id = \$1 ORDER BY id ASC LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(2), domain.DefaultListLimit, 0).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), int64(2), "A", "", int64(1), "1.00", now, now).
			AddRow(int64(2), int64(2), "B", "", int64(0), "2.00", now, now))
	products, err := repo.ListProducts(ctx, domain.ListFilter{CategoryID: 2})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "B", products[1].Name)

	mock.ExpectQuery(`FROM products ORDER BY id ASC LIMIT \$1 OFFSET \$2`).
		WithArgs(domain.DefaultListLimit, 0).
		WillReturnRows(sqlmock.NewRows(columns))
	products, err = repo.ListProducts(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProductRepository_UpdateProduct(t *testing.T) {
	ctx := context.TODO()
	now := time.Now().UTC()

	t.Run("Returns the stored row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`UPDATE products`).
			WithArgs(int64(2), "Widget", "", int64(4), "12.5", int64(7)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(7), int64(2), "Widget", "", int64(4), "12.50", now, now))

		p := &domain.Product{ID: 7, CategoryID: 2, Name: "Widget", Stock: 4, Price: decimal.RequireFromString("12.5")}
		require.NoError(t, repo.UpdateProduct(ctx, p))
		assert.Equal(t, "12.50", p.Price.StringFixed(2))
		assert.Equal(t, now, p.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`UPDATE products`).WillReturnRows(sqlmock.NewRows(columns))

		err := repo.UpdateProduct(ctx, &domain.Product{ID: 8, Name: "x", Price: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown category", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`UPDATE products`).
			WillReturnError(&pq.Error{Code: pq.ErrorCode(database.CodeForeignKeyViolation)})

		err := repo.UpdateProduct(ctx, &domain.Product{ID: 7, CategoryID: 99, Name: "x", Price: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresProductRepository_DeleteProduct(t *testing.T) {
	ctx := context.TODO()
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.DeleteProduct(ctx, 7))

	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteProduct(ctx, 8), ErrProductNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProductRepository_AdjustStock(t *testing.T) {
	ctx := context.TODO()
	now := time.Now().UTC()
	const adjust = `UPDATE products SET stock = stock \+ \$1`
	const get = `SELECT (.+) FROM products WHERE id = \$1`

	t.Run("Applied", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(adjust).WithArgs(int64(-3), int64(7)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(7), int64(2), "Widget", "", int64(7), "9.99", now, now))

		p, err := repo.AdjustStock(ctx, 7, -3)
		require.NoError(t, err)
		assert.Equal(t, int64(7), p.Stock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Guard refuses, product exists", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(adjust).WithArgs(int64(-50), int64(7)).WillReturnRows(sqlmock.NewRows(columns))
		mock.ExpectQuery(get).WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(7), int64(2), "Widget", "", int64(10), "9.99", now, now))

		_, err := repo.AdjustStock(ctx, 7, -50)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No such product", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(adjust).WithArgs(int64(5), int64(8)).WillReturnRows(sqlmock.NewRows(columns))
		mock.ExpectQuery(get).WithArgs(int64(8)).WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.AdjustStock(ctx, 8, 5)
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stock overflow", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(adjust).WillReturnError(&pq.Error{Code: pq.ErrorCode(database.CodeNumericOutOfRange)})

		_, err := repo.AdjustStock(ctx, 7, 1<<62)
		assert.ErrorIs(t, err, ErrValueOutOfRange)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Connection error is returned as is", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(adjust).WillReturnError(sql.ErrConnDone)

		_, err := repo.AdjustStock(ctx, 7, 1)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresProductRepository_ListLowStock(t *testing.T) {
	ctx := context.TODO()
	now := time.Now().UTC()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM products WHERE stock <= \$1 ORDER BY stock ASC, id ASC`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(3), nil, "Low", "", int64(5), "1.00", now, now))

	products, err := repo.ListLowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(5), products[0].Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}
