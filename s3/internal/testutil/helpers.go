package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// GenerateTestBucketName generates a unique, valid bucket name for tests.
func GenerateTestBucketName(prefix string) string {
	if prefix == "" {
		prefix = "test"
	}
	name := fmt.Sprintf("%s-%d-%d", strings.ToLower(prefix), time.Now().UnixNano(), rand.Intn(10000))
	if len(name) > 63 {
		name = name[:63]
	}
	return strings.TrimRight(name, "-")
}

// GenerateTestPrefix generates a unique key prefix for tests.
func GenerateTestPrefix(prefix string) string {
	if prefix == "" {
		prefix = "input"
	}
	return fmt.Sprintf("%s/%d", prefix, time.Now().UnixNano())
}
