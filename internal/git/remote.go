package git

import (
	"strings"
)

// HostedRepo identifies a repository on a hosting provider
type HostedRepo struct {
	Owner string
	Name  string
}

// Slug returns "owner/name"
func (r HostedRepo) Slug() string {
	return r.Owner + "/" + r.Name
}

var sshPrefixes = []string{
	"git@github.com:",
	"github.com:",
	"ssh://git@github.com/",
	"ssh://github.com/",
	"git://github.com/",
}

// IsSSHURL checks if a git URL is using SSH protocol
func IsSSHURL(gitURL string) bool {
	return strings.HasPrefix(gitURL, "git@") || strings.HasPrefix(gitURL, "ssh://")
}

// IsHTTPSURL checks if a git URL is using HTTP(S) protocol
func IsHTTPSURL(gitURL string) bool {
	return strings.HasPrefix(gitURL, "https://") || strings.HasPrefix(gitURL, "http://")
}

// ParseHostedRepo extracts owner and name from a GitHub remote URL or a bare
// "owner/name" slug
func ParseHostedRepo(raw string) (HostedRepo, bool) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(raw), ".git")
	if cleaned == "" {
		return HostedRepo{}, false
	}

	var repoPart string
	matched := false
	for _, prefix := range sshPrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			repoPart = strings.TrimPrefix(cleaned, prefix)
			matched = true
			break
		}
	}

	switch {
	case matched:
	case IsHTTPSURL(cleaned):
		rest, ok := httpRepoPath(cleaned)
		if !ok {
			return HostedRepo{}, false
		}
		repoPart = rest
	case strings.Contains(cleaned, "/") && !strings.Contains(cleaned, ":"):
		repoPart = cleaned
	default:
		return HostedRepo{}, false
	}

	segments := strings.Split(strings.Trim(repoPart, "/"), "/")
	if len(segments) < 2 {
		return HostedRepo{}, false
	}
	owner := strings.TrimSpace(segments[0])
	name := strings.TrimSpace(segments[1])
	if owner == "" || name == "" {
		return HostedRepo{}, false
	}

	return HostedRepo{Owner: owner, Name: name}, true
}

func httpRepoPath(url string) (string, bool) {
	rest := strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")

	host, path, found := strings.Cut(rest, "/")
	if !found {
		return "", false
	}
	if at := strings.LastIndex(host, "@"); at >= 0 {
		host = host[at+1:]
	}
	host = strings.ToLower(host)
	if host != "github.com" && host != "www.github.com" {
		return "", false
	}
	return path, true
}
