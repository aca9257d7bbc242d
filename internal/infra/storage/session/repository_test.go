package session

import (
	"context"
	"database/sql"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingExecutor запоминает сгенерированный SQL вместо выполнения
type recordingExecutor struct {
	queries []string
}

func (e *recordingExecutor) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	e.queries = append(e.queries, query)
	return nil, sql.ErrConnDone
}

func (e *recordingExecutor) QueryContext(_ context.Context, query string, _ ...interface{}) (*sql.Rows, error) {
	e.queries = append(e.queries, query)
	return nil, sql.ErrConnDone
}

func (e *recordingExecutor) QueryRowContext(_ context.Context, query string, _ ...interface{}) *sql.Row {
	e.queries = append(e.queries, query)
	return nil
}

// tourSessionsDDL вырезает блок CREATE TABLE tour_sessions из миграции
func tourSessionsDDL(t *testing.T) string {
	t.Helper()
	raw, err := os.ReadFile("../../../../migrations/20250901120000_create_catalog.sql")
	require.NoError(t, err)

	ddl := string(raw)
	start := strings.Index(ddl, "CREATE TABLE tour_sessions")
	require.NotEqual(t, -1, start, "миграция не создаёт tour_sessions")
	end := strings.Index(ddl[start:], ");")
	require.NotEqual(t, -1, end)
	return ddl[start : start+end]
}

func ddlHasColumn(ddl, column string) bool {
	re := regexp.MustCompile(`(?m)^\s+` + column + `\s`)
	return re.MatchString(ddl)
}

func TestSessionColumns_ExistInMigration(t *testing.T) {
	ddl := tourSessionsDDL(t)

	for _, col := range sessionColumns {
		assert.True(t, ddlHasColumn(ddl, col),
			"репозиторий читает колонку %s, которой нет в tour_sessions", col)
	}
}

func TestListOpenByVariant_QueryMatchesMigration(t *testing.T) {
	exec := &recordingExecutor{}
	repo := NewRepository(exec)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.ListOpenByVariant(context.Background(), 10, from, from.AddDate(0, 1, 0))
	require.ErrorIs(t, err, ErrExecQuery)

	require.Len(t, exec.queries, 1)
	query := exec.queries[0]
	assert.Contains(t, query, "FROM tour_sessions")

	// Каждая колонка из SELECT обязана существовать в схеме
	ddl := tourSessionsDDL(t)
	fromIdx := strings.Index(query, " FROM")
	require.Greater(t, fromIdx, 0)
	for _, col := range strings.Split(strings.TrimPrefix(query[:fromIdx], "SELECT "), ", ") {
		assert.True(t, ddlHasColumn(ddl, col),
			"запрос ссылается на колонку %s, которой нет в tour_sessions", col)
	}

	// Фильтр диапазона и сортировка бьют по той же колонке даты
	assert.Contains(t, query, "session_date >=")
	assert.Contains(t, query, "session_date <=")
	assert.Contains(t, query, "ORDER BY session_date ASC, start_time ASC")
}
