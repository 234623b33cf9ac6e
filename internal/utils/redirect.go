package utils

import "strings"

// DefaultPostLoginPath is where a login without a usable next parameter lands.
const DefaultPostLoginPath = "/dashboard"

// SafeNextPath returns next if it is a same-site absolute path, otherwise DefaultPostLoginPath.
// Protocol-relative ("//host") and backslash forms are refused as they leave the site.
func SafeNextPath(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return DefaultPostLoginPath
	}
	return next
}
