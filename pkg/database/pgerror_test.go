package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestPgErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("插入失败: %w", &pgconn.PgError{Code: "23P01"})
	if !IsExclusionViolation(wrapped) {
		t.Error("期望识别为排他约束冲突")
	}
	if IsForeignKeyViolation(wrapped) {
		t.Error("不应识别为外键冲突")
	}
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("期望识别为外键冲突")
	}
	if !IsCheckViolation(&pgconn.PgError{Code: "23514"}) {
		t.Error("期望识别为 CHECK 冲突")
	}
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("期望识别为唯一约束冲突")
	}
	if IsExclusionViolation(errors.New("普通错误")) {
		t.Error("普通错误不应被识别")
	}
}
