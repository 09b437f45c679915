package repository

import (
	"testing"
)

func TestLikeOperatorByDialect(t *testing.T) {
	if got := likeOperatorByDialect("postgres"); got != "ILIKE" {
		t.Fatalf("postgres operator want ILIKE got %s", got)
	}
	if got := likeOperatorByDialect("sqlite"); got != "LIKE" {
		t.Fatalf("sqlite operator want LIKE got %s", got)
	}
	if got := likeOperatorByDialect(""); got != "LIKE" {
		t.Fatalf("empty dialect must fall back to LIKE, got %s", got)
	}
}

func TestBuildKeywordConditionByDialect(t *testing.T) {
	condition, args := buildKeywordConditionByDialect("sqlite", []string{"name", "sku", " "}, "latte")
	if condition != "(name LIKE ? OR sku LIKE ?)" {
		t.Fatalf("unexpected condition: %s", condition)
	}
	if len(args) != 2 {
		t.Fatalf("args len want 2 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%latte%" {
			t.Fatalf("args[%d] want %%latte%% got %v", idx, arg)
		}
	}

	condition, _ = buildKeywordConditionByDialect("postgres", []string{"name"}, "latte")
	if condition != "(name ILIKE ?)" {
		t.Fatalf("unexpected postgres condition: %s", condition)
	}

	condition, args = buildKeywordConditionByDialect("sqlite", nil, "latte")
	if condition != "" || args != nil {
		t.Fatalf("empty column list must produce no condition, got %q %v", condition, args)
	}
}
