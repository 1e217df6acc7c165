package jskema

import (
	"context"
	"errors"
	"io"

	eng "github.com/reoring/jskema/internal/engine"
)

// DecodeFrom consumes one JSON value from src. Numbers follow the Source's
// NumberMode. Malformed input, enforcement failures and trailing data are
// returned as Issues errors. Duplicate keys reported under Warn come back as
// warnings alongside the value.
func DecodeFrom(ctx context.Context, src Source, opts ...ParseOpt) (any, Issues, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if src == nil {
		return nil, nil, singleIssue(CodeParseError, "nil source")
	}
	opt := lastOpt(opts)

	var warnings Issues
	tokens := engineTokenSource(src)
	eo := enforceOptions(opt, func(si eng.SimpleIssue) {
		if si.Code == CodeDuplicateKey {
			warnings = AppendIssues(warnings, Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: src.Location()})
		}
	})
	if eo.Enabled() {
		tokens = eng.WrapWithEnforcement(tokens, eo)
	}
	conv := eng.AsJSONNumber
	if src.NumberMode() == NumberFloat64 {
		conv = eng.AsFloat64
	}
	v, err := eng.Decode(tokens, conv)
	if err != nil {
		return nil, nil, toIssues(err, src.Location())
	}
	return v, warnings, nil
}

// ValidateFrom decodes one JSON value from src and validates it against n.
// Input that cannot be decoded yields an invalid Result carrying a
// parse_error, duplicate_key or truncated issue; the returned error is
// reserved for a nil node or a cancelled context.
func ValidateFrom(ctx context.Context, n Node, src Source, opts ...ParseOpt) (Result, error) {
	if n == nil {
		return Result{}, errors.New("jskema: nil node")
	}
	v, _, err := DecodeFrom(ctx, src, opts...)
	if err != nil {
		if iss, ok := AsIssues(err); ok {
			return Invalid(iss...), nil
		}
		return Result{}, err
	}
	return Validate(n, v), nil
}

// StreamValidate validates JSON read from r. When MaxBytes is set the size
// cap is enforced on the reader itself, which also covers drivers that
// cannot report offsets.
func StreamValidate(ctx context.Context, n Node, r io.Reader, opts ...ParseOpt) (Result, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			return Result{}, err
		}
		if int64(len(data)) > opt.MaxBytes {
			return Invalid(RootPath().Issue(CodeTruncated, "", "detail", "max bytes exceeded")), nil
		}
		return ValidateFrom(ctx, n, JSONBytes(data), opts...)
	}
	return ValidateFrom(ctx, n, JSONReader(r), opts...)
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

func toIssues(err error, offset int64) Issues {
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, Issue{Code: ie.Code, Path: ie.Path, Message: ie.Message, Offset: offset, Cause: err})
	}
	it := RootPath().Issue(CodeParseError, "", "detail", err.Error())
	it.Offset = offset
	it.Cause = err
	return AppendIssues(nil, it)
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Path: "/", Code: code, Message: msg})
}
