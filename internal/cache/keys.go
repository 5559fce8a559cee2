package cache

import "fmt"

func ResultKey(fingerprint string) string {
	return fmt.Sprintf("analysis:result:%s", fingerprint)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
