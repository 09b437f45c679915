package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		// postgres 的 LIKE 区分大小写，检索统一用 ILIKE
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// buildKeywordCondition 构建多列关键字模糊匹配条件，返回条件表达式与参数列表。
func buildKeywordCondition(db *gorm.DB, columns []string, keyword string) (string, []interface{}) {
	return buildKeywordConditionByDialect(dbDialectName(db), columns, keyword)
}

func buildKeywordConditionByDialect(dialect string, columns []string, keyword string) (string, []interface{}) {
	operator := likeOperatorByDialect(dialect)
	like := "%" + keyword + "%"

	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, column := range columns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", trimmed, operator))
		args = append(args, like)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}
