// ABOUTME: Safe SQL query builder for SQLite cache operations
// ABOUTME: Enforces parameterization and validates identifiers, keys and values

package sqlite

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Logger is the subset of interfaces.Logger the query helpers need
type Logger interface {
	Warn(msg string, fields map[string]interface{})
}

var (
	safeNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

	maxKeyLength   = 255
	maxValueLength = 1024 * 1024 // 1MB
)

// QueryBuilder builds parameterized SQL statements from validated identifiers
type QueryBuilder struct {
	query  string
	params []interface{}
	err    error
}

// NewQueryBuilder creates a new query builder instance
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		params: make([]interface{}, 0),
	}
}

func validateName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("name too long: %s (max 64 characters)", name)
	}
	if !safeNamePattern.MatchString(name) {
		return fmt.Errorf("invalid name: %s (only alphanumeric and underscore allowed)", name)
	}
	return nil
}

func (qb *QueryBuilder) check(names ...string) bool {
	if qb.err != nil {
		return false
	}
	for _, n := range names {
		if err := validateName(n); err != nil {
			qb.err = err
			return false
		}
	}
	return true
}

// Select builds a SELECT clause; no columns means *
func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	if !qb.check(columns...) {
		return qb
	}
	if len(columns) == 0 {
		qb.query = "SELECT * "
	} else {
		qb.query = "SELECT " + strings.Join(columns, ", ") + " "
	}
	return qb
}

// From adds a FROM clause
func (qb *QueryBuilder) From(table string) *QueryBuilder {
	if qb.check(table) {
		qb.query += "FROM " + table + " "
	}
	return qb
}

// Where adds a parameterized condition, joined with AND to earlier ones
func (qb *QueryBuilder) Where(column string, operator string, value interface{}) *QueryBuilder {
	if !qb.check(column) {
		return qb
	}

	switch operator {
	case "=", "!=", ">", "<", ">=", "<=":
	default:
		qb.err = fmt.Errorf("unsupported operator: %q", operator)
		return qb
	}

	if strings.Contains(qb.query, "WHERE") {
		qb.query += "AND "
	} else {
		qb.query += "WHERE "
	}
	qb.query += column + " " + operator + " ? "
	qb.params = append(qb.params, value)
	return qb
}

// InsertOrReplace builds an INSERT OR REPLACE statement
func (qb *QueryBuilder) InsertOrReplace(table string) *QueryBuilder {
	if qb.check(table) {
		qb.query = "INSERT OR REPLACE INTO " + table + " "
	}
	return qb
}

// Values adds the column list and placeholders for an insert
func (qb *QueryBuilder) Values(columns []string, values []interface{}) *QueryBuilder {
	if len(columns) != len(values) {
		qb.err = fmt.Errorf("column/value count mismatch: %d != %d", len(columns), len(values))
		return qb
	}
	if len(columns) == 0 || !qb.check(columns...) {
		return qb
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	qb.query += "(" + strings.Join(columns, ", ") + ") VALUES (" + placeholders + ")"
	qb.params = append(qb.params, values...)
	return qb
}

// Delete builds a DELETE statement
func (qb *QueryBuilder) Delete(table string) *QueryBuilder {
	if qb.check(table) {
		qb.query = "DELETE FROM " + table + " "
	}
	return qb
}

// Build returns the statement, its parameters and the first validation error
func (qb *QueryBuilder) Build() (string, []interface{}, error) {
	if qb.err != nil {
		return "", nil, qb.err
	}
	return strings.TrimSpace(qb.query), qb.params, nil
}

// ValidateKey rejects unusable cache keys and warns about suspicious ones.
// Suspicious keys are still accepted: every statement is parameterized.
func ValidateKey(key string, logger Logger) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return fmt.Errorf("key too long: max %d characters", maxKeyLength)
	}
	if strings.Contains(key, "\x00") {
		return errors.New("key cannot contain null bytes")
	}

	if logger == nil {
		return nil
	}
	for _, pattern := range []string{"--", "/*", "*/", ";", "'", "\"", "\\", "\n", "\r"} {
		if strings.Contains(key, pattern) {
			logger.Warn("Suspicious pattern detected in cache key", map[string]interface{}{
				"pattern":     pattern,
				"key_length":  len(key),
				"key_preview": truncateKey(key),
			})
		}
	}
	return nil
}

func truncateKey(key string) string {
	const maxPreview = 50
	if len(key) <= maxPreview {
		return key
	}
	return key[:maxPreview] + "..."
}

// ValidateValue validates a cache value
func ValidateValue(value []byte) error {
	if len(value) == 0 {
		return errors.New("value cannot be empty")
	}
	if len(value) > maxValueLength {
		return fmt.Errorf("value too large: max %d bytes", maxValueLength)
	}
	return nil
}

// cacheQueries holds the prepared statement texts used by Client
type cacheQueries struct {
	get     string
	set     string
	del     string
	cleanup string
}

// buildCacheQueries renders the cache statements for the given table
func buildCacheQueries(table string) (cacheQueries, error) {
	var q cacheQueries
	var err error

	if q.get, _, err = NewQueryBuilder().
		Select("value").
		From(table).
		Where("key", "=", nil).
		Where("expiry", ">", nil).
		Build(); err != nil {
		return q, err
	}

	if q.set, _, err = NewQueryBuilder().
		InsertOrReplace(table).
		Values([]string{"key", "value", "expiry"}, []interface{}{nil, nil, nil}).
		Build(); err != nil {
		return q, err
	}

	if q.del, _, err = NewQueryBuilder().Delete(table).Where("key", "=", nil).Build(); err != nil {
		return q, err
	}

	q.cleanup, _, err = NewQueryBuilder().Delete(table).Where("expiry", "<=", nil).Build()
	return q, err
}
