package client

import (
	"fmt"
	"regexp"
)

const maxShownBody = 512

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// checkStatus returns the failure message when the status differs.
func checkStatus(want int, resp *Response) (string, bool) {
	if resp.StatusCode == want {
		return "", true
	}
	return fmt.Sprintf("bad %d result: %d %s...", want, resp.StatusCode, truncate(resp.Text, maxShownBody)), false
}

// checkContent returns the failure message when pattern does not match the
// body. An invalid pattern is reported as a failure.
func checkContent(pattern string, resp *Response) (string, bool) {
	re, err := regexp.Compile("(?s)" + pattern)
	if err != nil {
		return fmt.Sprintf("invalid content pattern %s: %v", pattern, err), false
	}
	if re.MatchString(resp.Text) {
		return "", true
	}
	return fmt.Sprintf("cannot find %s in %s...", pattern, truncate(resp.Text, maxShownBody)), false
}
