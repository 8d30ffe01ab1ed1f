package dbrepository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"go-payguard/internal/payguard/data"
	"go-payguard/pkg/logging"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	invalidUserID = -1

	uniqueViolationCode = "23505"
)

type DBStorage interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) (pgx.Row, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryValue(ctx context.Context, query string, args []any, dest []any) error
}

type DBRepository struct {
	storage DBStorage
	logger  *logging.ZapLogger
}

func New(storage DBStorage, logger *logging.ZapLogger) *DBRepository {
	return &DBRepository{
		storage: storage,
		logger:  logger,
	}
}

//go:embed sql/insert_user.sql
var insertUserQuery string

func (db *DBRepository) InsertUser(ctx context.Context, login, password string) (userID int, err error) {
	err = db.storage.QueryValue(ctx, insertUserQuery, []any{login, password}, []any{&userID})
	if err != nil {
		return invalidUserID, handleSQLError(err)
	}
	return userID, nil
}

//go:embed sql/validate_user.sql
var validateUserQuery string

func (db *DBRepository) ValidateUser(ctx context.Context, login, password string) (userID int, err error) {
	result := struct {
		userID          int
		passwordMatches bool
	}{}
	err = db.storage.QueryValue(
		ctx,
		validateUserQuery,
		[]any{login, password},
		[]any{&result.userID, &result.passwordMatches},
	)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return invalidUserID, data.ErrInvalidLogin
		default:
			return invalidUserID, fmt.Errorf("failed to validate user: %w", err)
		}
	}
	if !result.passwordMatches {
		return invalidUserID, data.ErrInvalidPassword
	}
	return result.userID, nil
}

//go:embed sql/upsert_order.sql
var upsertOrderQuery string

func (db *DBRepository) UpsertOrder(ctx context.Context, order data.Order) error {
	db.logger.DebugCtx(
		ctx,
		"upserting order",
		zap.String("orderID", order.OrderID),
		zap.String("status", string(order.Status)),
	)
	_, err := db.storage.Exec(
		ctx,
		upsertOrderQuery,
		order.OrderID,
		order.Amount,
		string(order.Status),
		order.Reason,
		order.UpdatedAt,
	)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/select_order.sql
var selectOrderQuery string

func (db *DBRepository) GetOrder(ctx context.Context, orderID string) (data.Order, error) {
	order := data.Order{
		OrderID: orderID,
	}
	err := db.storage.QueryValue(
		ctx,
		selectOrderQuery,
		[]any{orderID},
		[]any{&order.Amount, &order.Status, &order.Reason, &order.UpdatedAt},
	)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return data.Order{}, data.ErrOrderNotFound
		default:
			return data.Order{}, handleSQLError(err)
		}
	}
	return order, nil
}

//go:embed sql/select_orders.sql
var selectOrdersQuery string

func (db *DBRepository) GetAllOrders(ctx context.Context) ([]data.Order, error) {
	rows, err := db.storage.Query(ctx, selectOrdersQuery)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.Order, 0)
	for rows.Next() {
		var order data.Order
		err := rows.Scan(
			&order.OrderID,
			&order.Amount,
			&order.Status,
			&order.Reason,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, handleSQLError(err)
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, handleSQLError(err)
	}
	return result, nil
}

//go:embed sql/select_user_points.sql
var selectUserPointsQuery string

func (db *DBRepository) GetUserPoints(ctx context.Context, username string) (int64, error) {
	var points int64
	err := db.storage.QueryValue(ctx, selectUserPointsQuery, []any{username}, []any{&points})
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return 0, nil
		default:
			return 0, handleSQLError(err)
		}
	}
	return points, nil
}

//go:embed sql/upsert_user_points.sql
var upsertUserPointsQuery string

func (db *DBRepository) SetUserPoints(ctx context.Context, username string, points int64) error {
	_, err := db.storage.Exec(ctx, upsertUserPointsQuery, username, points)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/insert_deduction.sql
var insertDeductionQuery string

func (db *DBRepository) InsertDeduction(ctx context.Context, deduction data.Deduction) error {
	_, err := db.storage.Exec(
		ctx,
		insertDeductionQuery,
		deduction.Username,
		deduction.Points,
		deduction.Reason,
		deduction.ProcessTime,
	)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/select_deductions.sql
var selectDeductionsQuery string

func (db *DBRepository) GetUserDeductions(ctx context.Context, username string) ([]data.Deduction, error) {
	rows, err := db.storage.Query(ctx, selectDeductionsQuery, username)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	result := make([]data.Deduction, 0)
	for rows.Next() {
		deduction := data.Deduction{
			Username: username,
		}
		err := rows.Scan(&deduction.Points, &deduction.Reason, &deduction.ProcessTime)
		if err != nil {
			return nil, handleSQLError(err)
		}
		result = append(result, deduction)
	}
	if err := rows.Err(); err != nil {
		return nil, handleSQLError(err)
	}
	return result, nil
}

func handleSQLError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return data.ErrUniqueConstraintViolation
	}
	return fmt.Errorf("sql error: %w", err)
}
