package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// newTestDB 打开独立命名的共享内存库，避免用例间数据串扰
func newTestDB(t *testing.T, tables ...interface{}) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if len(tables) > 0 {
		if err := db.AutoMigrate(tables...); err != nil {
			t.Fatalf("auto migrate failed: %v", err)
		}
	}
	return db
}

func timePtr(value time.Time) *time.Time {
	return &value
}
