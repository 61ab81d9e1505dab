package ginutil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt extracts an integer from query parameters with default value
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// QueryLimit reads a page size. Missing, invalid or non-positive values
// give 0 (no limit); anything above max is clamped.
func QueryLimit(c *gin.Context, key string, max int) int {
	n := QueryInt(c, key, 0)
	switch {
	case n <= 0:
		return 0
	case max > 0 && n > max:
		return max
	}
	return n
}
