package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateKeyWithParams joins prefix and params with ':'.
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range params {
		b.WriteByte(':')
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// HashKey returns the hex MD5 of key, for folding long parameter sets into one key segment.
func HashKey(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}
