package core

import (
	"path"
	"regexp"
	"strings"
)

type AssetKind int

const (
	AssetOther AssetKind = iota
	AssetScript
	AssetStyle
	AssetSourceMap
	AssetMedia
)

// esbuild content hashes are eight characters of upper-case base32.
var hashedNamePattern = regexp.MustCompile(`\.[A-Z2-7]{8}\.[a-z0-9]+(\.map)?$`)

func IsHashedAsset(name string) bool {
	return hashedNamePattern.MatchString(path.Base(name))
}

func ClassifyAsset(name string) AssetKind {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".map"):
		return AssetSourceMap
	case strings.HasSuffix(name, ".js"):
		return AssetScript
	case strings.HasSuffix(name, ".css"):
		return AssetStyle
	case strings.HasPrefix(path.Clean("/"+name), "/static/media/"):
		return AssetMedia
	}
	return AssetOther
}

// PublicURL turns an output-relative file name into the URL it is served at.
func PublicURL(name string) string {
	return "/" + strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(name, "\\", "/")), "/")
}
