package jskema

import (
	"io"

	eng "github.com/reoring/jskema/internal/engine"
)

// DetectDuplicateKeys scans src to the end and reports every duplicated
// object key with its JSON Pointer. maxIssues < 0 means unlimited and 0
// disables the scan; when the limit is reached a final truncated issue is
// appended. A malformed document stops the scan and the issues found so far
// are returned with the error.
func DetectDuplicateKeys(src Source, maxIssues int) (Issues, error) {
	if maxIssues == 0 {
		return nil, nil
	}
	var iss Issues
	full := false
	tokens := eng.WrapWithEnforcement(engineTokenSource(src), eng.EnforceOptions{
		OnDuplicate: eng.DupWarn,
		IssueSink: func(si eng.SimpleIssue) {
			if full {
				return
			}
			iss = AppendIssues(iss, Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: src.Location()})
			if maxIssues >= 0 && len(iss) >= maxIssues {
				full = true
				iss = AppendIssues(iss, RootPath().Issue(CodeTruncated, "", "detail", "max issues reached"))
			}
		},
	})
	for !full {
		if _, err := tokens.NextToken(); err != nil {
			if err == io.EOF {
				break
			}
			return iss, err
		}
	}
	return iss, nil
}
