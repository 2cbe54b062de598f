// Package sqlstore loads vocabulary items from a SQL table with word, meaning and example columns.
package sqlstore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/vocabquiz/internal/vocabulary"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func selectAll(builder squirrel.StatementBuilderType, table string) (string, []any, error) {
	if !tableNamePattern.MatchString(table) {
		return "", nil, fmt.Errorf("invalid table name %q", table)
	}
	query, args, err := builder.
		Select("word", "meaning", "example").
		From(table).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("squirrel.ToSql() > %w", err)
	}
	return query, args, nil
}

// MySQLLoader reads a table through sqlx.
type MySQLLoader struct {
	db    *sqlx.DB
	table string
}

func NewMySQLLoader(db *sqlx.DB, table string) *MySQLLoader {
	return &MySQLLoader{db: db, table: table}
}

func (loader *MySQLLoader) LoadAll(ctx context.Context) ([]vocabulary.Item, error) {
	query, args, err := selectAll(squirrel.StatementBuilder, loader.table)
	if err != nil {
		return nil, err
	}

	var items []vocabulary.Item
	if err := loader.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(%s) > %w", loader.table, err)
	}
	return items, nil
}

// Querier is the subset of pgxpool.Pool used by PostgresLoader.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresLoader reads a table through pgx.
type PostgresLoader struct {
	db    Querier
	table string
}

func NewPostgresLoader(db Querier, table string) *PostgresLoader {
	return &PostgresLoader{db: db, table: table}
}

func (loader *PostgresLoader) LoadAll(ctx context.Context) ([]vocabulary.Item, error) {
	query, args, err := selectAll(squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar), loader.table)
	if err != nil {
		return nil, err
	}

	rows, err := loader.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db.Query(%s) > %w", loader.table, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[vocabulary.Item])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows(%s) > %w", loader.table, err)
	}
	return items, nil
}
