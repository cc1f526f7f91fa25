package clausewitz

import "github.com/reoring/clausewitz/i18n"

// IssueAt creates an Issue at the given path with provided code, message and params map.
// This is a convenience helper to improve readability at call sites with many parameters.
func IssueAt(p PathRef, code, msg string, params map[string]any) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: params, Offset: -1}
}

// NewIssue builds an Issue with a translated message for code.
// got is the offending input text, if any.
func NewIssue(code, expected, got string) Issue {
	data := map[string]string{}
	if expected != "" {
		data["expected"] = expected
	}
	if got != "" {
		data["got"] = got
	}
	it := Issue{Path: "/", Code: code, Message: i18n.T(code, data), Hint: expected, Offset: -1}
	if got != "" {
		it.Params = map[string]any{"got": got}
	}
	return it
}
