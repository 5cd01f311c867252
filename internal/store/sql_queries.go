package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-lesson-sync/models"
)

var changeColumns = []string{"version", "path", "data", "created_at"}

func statementBuilder(dialect Dialect) sq.StatementBuilderType {
	if dialect == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

func buildAppendChangeQuery(dialect Dialect, change models.Change) (string, []any, error) {
	return statementBuilder(dialect).
		Insert(change.TableName()).
		Columns(changeColumns...).
		Values(change.Version, change.Path, string(change.Data), change.CreatedAt).
		ToSql()
}

func buildSinceQuery(dialect Dialect, from int64) (string, []any, error) {
	return statementBuilder(dialect).
		Select(changeColumns...).
		From(models.Change{}.TableName()).
		Where(sq.Gt{"version": from}).
		OrderBy("version ASC").
		ToSql()
}

func buildLatestVersionQuery(dialect Dialect) (string, []any, error) {
	return statementBuilder(dialect).
		Select("COALESCE(MAX(version), 0)").
		From(models.Change{}.TableName()).
		ToSql()
}
