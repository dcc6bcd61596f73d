package assets

import (
	"crypto/rand"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateIdentifier produces a collision-resistant identifier of the shape
// {sanitizedBase}_{unixMillis}_{token}. The extension is not part of the
// identifier; stores that need one append it themselves (see NormalizeExt).
func GenerateIdentifier(originalFilename string) string {
	base := sanitizeBaseName(originalFilename)
	if base == "" {
		base = "asset"
	}
	return fmt.Sprintf("%s_%d_%s", base, time.Now().UnixMilli(), randomToken(6))
}

// NormalizeExt returns the lowercased extension of name including the dot,
// or "" when the name has none.
func NormalizeExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// sanitizeBaseName strips the extension and every character outside
// [A-Za-z0-9_-] so the result is safe as both a filesystem path segment and
// a remote object key.
func sanitizeBaseName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func randomToken(n int) string {
	buf := make([]byte, n)
	// rand.Read never fails on supported platforms
	_, _ = rand.Read(buf)
	for i, c := range buf {
		buf[i] = tokenAlphabet[int(c)%len(tokenAlphabet)]
	}
	return string(buf)
}
