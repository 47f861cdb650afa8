package gorm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storyhub-org/storyhub/pkg/server/store"
)

// translate maps driver errors onto store sentinels. A foreign key failure
// on write means the caller referenced a missing row.
func translate(err error) error {
	return translateErr(err, store.ErrInvalid)
}

// translateDelete is translate for deletes, where a foreign key failure
// means other rows still point at the target.
func translateDelete(err error) error {
	return translateErr(err, store.ErrInUse)
}

func translateErr(err error, fkErr error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", fkErr, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case strings.Contains(msg, "foreign key"):
		return fmt.Errorf("%w: %v", fkErr, err)
	}
	return err
}

func paginate(q *gorm.DB, p store.Page) *gorm.DB {
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}

func inRange(q *gorm.DB, column string, r store.TimeRange) *gorm.DB {
	if !r.From.IsZero() {
		q = q.Where(column+" >= ?", r.From)
	}
	if !r.To.IsZero() {
		q = q.Where(column+" < ?", r.To)
	}
	return q
}

// contains builds a LIKE pattern for a case-insensitive substring match.
func contains(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// matchAny returns a condition matching pattern against any of columns,
// plus the repeated arguments for it.
func matchAny(pattern string, columns ...string) (string, []interface{}) {
	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, c := range columns {
		parts[i] = "LOWER(" + c + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// replace overwrites every column of the row with the given id except the
// key and creation time. Select("*") makes zero values count.
func replace(ctx context.Context, db *gorm.DB, table interface{}, id uuid.UUID, value interface{}) error {
	res := db.WithContext(ctx).Model(table).Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(value)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, db *gorm.DB, table interface{}, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(table)
	if res.Error != nil {
		return translateDelete(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
