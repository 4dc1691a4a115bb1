package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SLN-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с недельным расписанием и перерывами мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeekly получает недельное расписание мастера (до 7 строк, по дням недели)
func (r *Repository) GetWeekly(ctx context.Context, staffID int64) ([]*domain.WeeklyScheduleRow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"weekday",
		"open_time",
		"close_time",
		"is_working",
		"created_at",
		"updated_at",
	).
		From("staff_schedules").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeekly - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeekly - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanScheduleRows(rows)
}

// GetByWeekday получает строку расписания мастера на конкретный день недели
// Возвращает ErrScheduleNotFound, если мастер не задавал расписание на этот день
func (r *Repository) GetByWeekday(ctx context.Context, staffID int64, weekday time.Weekday) (*domain.WeeklyScheduleRow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"weekday",
		"open_time",
		"close_time",
		"is_working",
		"created_at",
		"updated_at",
	).
		From("staff_schedules").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"weekday": int(weekday)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByWeekday - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByWeekday - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	scheduleRows, err := r.scanScheduleRows(rows)
	if err != nil {
		return nil, err
	}
	if len(scheduleRows) == 0 {
		return nil, ErrScheduleNotFound
	}

	return scheduleRows[0], nil
}

// ReplaceWeekly полностью заменяет недельное расписание мастера
// Должен вызываться внутри транзакции (delete + insert)
func (r *Repository) ReplaceWeekly(ctx context.Context, staffID int64, scheduleRows []*domain.WeeklyScheduleRow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("staff_schedules").
		Where(squirrel.Eq{"staff_id": staffID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceWeekly - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWeekly - execute delete: %v", ErrExecQuery, err)
	}

	if len(scheduleRows) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("staff_schedules").
		Columns("staff_id", "weekday", "open_time", "close_time", "is_working")

	for _, row := range scheduleRows {
		insertBuilder = insertBuilder.Values(
			staffID,
			row.Weekday,
			row.OpenTime,
			row.CloseTime,
			row.IsWorking,
		)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeekly - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWeekly - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetBreaks получает перерывы мастера на конкретную дату
func (r *Repository) GetBreaks(ctx context.Context, staffID int64, date time.Time) ([]*domain.Break, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"break_date",
		"start_time",
		"end_time",
		"label",
		"created_at",
		"updated_at",
	).
		From("staff_breaks").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"break_date": date.Format(domain.DateFormat)}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBreaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBreaks(rows)
}

// GetBreaksForStaff получает перерывы нескольких мастеров на конкретную дату
func (r *Repository) GetBreaksForStaff(ctx context.Context, staffIDs []int64, date time.Time) ([]*domain.Break, error) {
	if len(staffIDs) == 0 {
		return []*domain.Break{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"break_date",
		"start_time",
		"end_time",
		"label",
		"created_at",
		"updated_at",
	).
		From("staff_breaks").
		Where(squirrel.Eq{"staff_id": staffIDs}).
		Where(squirrel.Eq{"break_date": date.Format(domain.DateFormat)}).
		OrderBy("staff_id ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBreaksForStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBreaksForStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBreaks(rows)
}

// ReplaceBreaks полностью заменяет перерывы мастера на дату
// Должен вызываться внутри транзакции (delete + insert)
func (r *Repository) ReplaceBreaks(ctx context.Context, staffID int64, date time.Time, breaks []*domain.Break) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("staff_breaks").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"break_date": date.Format(domain.DateFormat)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceBreaks - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceBreaks - execute delete: %v", ErrExecQuery, err)
	}

	if len(breaks) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("staff_breaks").
		Columns("staff_id", "break_date", "start_time", "end_time", "label")

	for _, b := range breaks {
		insertBuilder = insertBuilder.Values(
			staffID,
			date.Format(domain.DateFormat),
			b.StartTime,
			b.EndTime,
			b.Label,
		)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBreaks - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceBreaks - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// scanScheduleRows сканирует результаты запроса в слайс строк расписания
func (r *Repository) scanScheduleRows(rows *sql.Rows) ([]*domain.WeeklyScheduleRow, error) {
	result := make([]*domain.WeeklyScheduleRow, 0)

	for rows.Next() {
		var row domain.WeeklyScheduleRow
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&row.ID,
			&row.StaffID,
			&row.Weekday,
			&row.OpenTime,
			&row.CloseTime,
			&row.IsWorking,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanScheduleRows - scan row: %v", ErrScanRow, err)
		}

		row.CreatedAt = createdAt.Time
		row.UpdatedAt = updatedAt.Time

		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanScheduleRows - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// scanBreaks сканирует результаты запроса в слайс перерывов
func (r *Repository) scanBreaks(rows *sql.Rows) ([]*domain.Break, error) {
	result := make([]*domain.Break, 0)

	for rows.Next() {
		var b domain.Break
		var breakDate time.Time
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&b.ID,
			&b.StaffID,
			&breakDate,
			&b.StartTime,
			&b.EndTime,
			&b.Label,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBreaks - scan row: %v", ErrScanRow, err)
		}

		b.Date = breakDate
		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		result = append(result, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBreaks - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
