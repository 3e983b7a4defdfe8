package github

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	digitsPattern  = regexp.MustCompile(`^\d+$`)
	pullURLPattern = regexp.MustCompile(`/pull/(\d+)`)
)

// ParseIssueNumber accepts "123" or "#123" and returns 123.
func ParseIssueNumber(arg string) (int, error) {
	s := strings.TrimLeft(strings.TrimSpace(arg), "#")
	if !digitsPattern.MatchString(s) {
		return 0, invalidReference("invalid issue number %q, expected something like 123 or #123", arg)
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidReference("invalid issue number %q: %v", arg, err)
	}
	if n < 1 {
		return 0, invalidReference("issue number must be >= 1, got %q", arg)
	}
	return n, nil
}

// ParsePullRequestRef normalizes a pull request reference for `gh pr`.
// "#123" and "123" become "123"; a URL containing /pull/<number> is
// returned as-is since gh resolves it.
func ParsePullRequestRef(arg string) (string, error) {
	s := strings.TrimSpace(arg)

	if digits := strings.TrimPrefix(s, "#"); digitsPattern.MatchString(digits) {
		n, err := strconv.Atoi(digits)
		if err != nil || n < 1 {
			return "", invalidReference("invalid PR number %q, must be >= 1", arg)
		}
		return strconv.Itoa(n), nil
	}
	if pullURLPattern.MatchString(s) {
		return s, nil
	}

	return "", invalidReference("invalid PR reference %q, expected a number (e.g. 3698), #3698, or a PR URL", arg)
}
