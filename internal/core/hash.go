package core

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

func HashContent(content []byte) string {
	return strconv.FormatUint(xxhash.Sum64(content), 16)
}

func ETag(content []byte) string {
	return `"` + HashContent(content) + `"`
}
