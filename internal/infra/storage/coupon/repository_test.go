package coupon

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avmos/SB-AppointmentService/internal/domain"
)

// Репозиторий пишет domain.CouponType в колонку type без маппинга,
// поэтому CHECK в схеме обязан перечислять ровно доменные значения.
func TestCouponTypeEnumMatchesSchema(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "002_coupons.sql"))
	require.NoError(t, err)

	check := regexp.MustCompile(`type\s+TEXT\s+NOT NULL\s+CHECK \(type IN \(([^)]+)\)\)`).
		FindStringSubmatch(string(raw))
	require.NotNil(t, check, "coupons.type CHECK constraint not found in migration")

	assert.Contains(t, check[1], "'"+string(domain.CouponPercentage)+"'")
	assert.Contains(t, check[1], "'"+string(domain.CouponFixedAmount)+"'")
}
