package util

import (
	"net/url"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ComputeBaseHref calculates the relative path to the docs root
// so that nav links work correctly for pages at any depth.
// For example, a page at posts/a/b.md would get a BaseHref of "../../".
func ComputeBaseHref(relPath string) string {
	dir := path.Dir(relPath)
	if dir == "." || dir == "/" {
		return ""
	}
	depth := strings.Count(strings.Trim(dir, "/"), "/") + 1
	return strings.Repeat("../", depth)
}

// JoinPosix joins elem onto root and cleans the result. An absolute elem
// replaces the root entirely, the same way a browser resolves "/x".
func JoinPosix(root, elem string) string {
	if strings.HasPrefix(elem, "/") || root == "" {
		return path.Clean(elem)
	}
	return path.Clean(root + "/" + elem)
}

// IsExternalURL reports whether link carries a scheme or a network location
// and so must not be resolved against the docs tree.
func IsExternalURL(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.Scheme != "" || u.Host != ""
}

// DirnameToTitle turns a directory name such as "getting_started" into a
// human readable title ("Getting started"). Names that contain uppercase
// letters keep their casing.
func DirnameToTitle(name string) string {
	title := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	if strings.ToLower(title) != title {
		return title
	}
	r, size := utf8.DecodeRuneInString(title)
	if r == utf8.RuneError {
		return title
	}
	return string(unicode.ToUpper(r)) + title[size:]
}
