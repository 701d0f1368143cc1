package objectapi

import (
	"os"
	"strconv"

	"github.com/wharfstore/core/objectfsm"
)

// ConfigFromEnv loads an objectfsm.Config from OBJSTORE_BLOCK_SIZE,
// OBJSTORE_INLINE_THRESHOLD and OBJSTORE_S3_REGION, falling back to
// defaults for anything unset or unparsable, the way blob/s3blob.go reads
// AWS_S3_ACCESS_KEY/AWS_S3_SECRET_KEY.
func ConfigFromEnv() objectfsm.Config {
	return objectfsm.Config{
		BlockSize:       envInt("OBJSTORE_BLOCK_SIZE", 4096),
		InlineThreshold: envInt("OBJSTORE_INLINE_THRESHOLD", 3072),
		S3Region:        envString("OBJSTORE_S3_REGION", "garage"),
	}
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
