package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeExclusionViolation  = "23P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsExclusionViolation 排他约束冲突（同一教授同一天课时区间重叠）
func IsExclusionViolation(err error) bool {
	return pgCode(err) == codeExclusionViolation
}

// IsForeignKeyViolation 外键约束冲突（引用的教授不存在）
func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// IsUniqueViolation 唯一约束冲突
func IsUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// IsCheckViolation CHECK 约束冲突（星期/课时越界）
func IsCheckViolation(err error) bool {
	return pgCode(err) == codeCheckViolation
}
