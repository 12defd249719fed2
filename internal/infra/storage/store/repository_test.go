package store

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Одиночный магазин существует вне компании: domain.Store.CompanyID — *int64,
// и схема обязана допускать NULL.
func TestStoreCompanyNullableInSchema(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)
	schema := string(raw)

	companyCol := regexp.MustCompile(`(?m)^\s*company_id\s+BIGINT\s*,`)
	assert.True(t, companyCol.MatchString(schema), "stores.company_id must be nullable")
	assert.NotRegexp(t, `company_id\s+BIGINT\s+NOT NULL`, schema, "stores.company_id must be nullable")
}
