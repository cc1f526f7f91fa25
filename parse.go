package clausewitz

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/reoring/clausewitz/i18n"
	eng "github.com/reoring/clausewitz/internal/engine"
	"github.com/reoring/clausewitz/internal/stream"
)

// ParseTree consumes tokens from src and builds the token tree, enforcing
// MaxDepth and MaxBytes while the input streams.
func ParseTree(ctx context.Context, src Source, opts ...DecodeOpt) (Node, error) {
	return parseTree(ctx, src, lastOpt(opts), nil)
}

// ParseSection builds a root object holding only the first top-level pair
// named key. Earlier pairs are skipped without being materialized and input
// after the section is never read. A missing key yields an empty object.
func ParseSection(ctx context.Context, src Source, key string, opts ...DecodeOpt) (Node, error) {
	return parseTree(ctx, src, lastOpt(opts), func(s eng.TokenSource) eng.TokenSource {
		return stream.NewSectionSource(s, key)
	})
}

func parseTree(ctx context.Context, src Source, opt DecodeOpt, narrow func(eng.TokenSource) eng.TokenSource) (Node, error) {
	if src == nil {
		return Node{}, singleIssue(CodeParseError, "nil source")
	}
	if err := ctx.Err(); err != nil {
		return Node{}, Canceled(err)
	}
	var forward func(eng.SimpleIssue)
	if opt.IssueSink != nil {
		forward = func(si eng.SimpleIssue) {
			opt.IssueSink(Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: src.Location()})
		}
	}
	var in eng.TokenSource = src
	if narrow != nil {
		in = narrow(in)
	}
	enforced := eng.WrapWithEnforcement(in, eng.EnforceOptions{
		MaxDepth:  opt.MaxDepth,
		MaxBytes:  opt.MaxBytes,
		IssueSink: forward,
	})
	n, err := eng.BuildTree(enforced)
	if err != nil {
		return Node{}, toIssues(err)
	}
	opt.Logger.Debug("token tree built", zap.Int("root_entries", len(n.Pairs)+len(n.Items)), zap.Int64("bytes", src.Location()))
	return n, nil
}

// DecodeFrom is the primary entry point. It builds the token tree from src
// and binds it with s. On field-level issues the partially decoded value is
// returned together with the Issues.
func DecodeFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...DecodeOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, singleIssue(CodeParseError, "nil schema")
	}
	opt := lastOpt(opts)
	n, err := ParseTree(ctx, src, opt)
	if err != nil {
		return zero, err
	}
	return s.Decode(WithDecodeOpt(ctx, opt), n)
}

// StreamDecode decodes a document read from r. When MaxBytes is set it
// enforces the size cap up front.
func StreamDecode[T any](ctx context.Context, s Schema[T], r io.Reader, format Format, opts ...DecodeOpt) (T, error) {
	var zero T
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return zero, singleIssue(CodeParseError, err.Error())
	}
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return zero, singleIssue(CodeTruncated, "max bytes exceeded")
	}
	return DecodeFrom(ctx, s, SourceFor(format, data), opt)
}

// ---- helpers (error mapping) ----

func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, Issue{Code: ie.Code, Path: ie.Path, Message: ie.Message, Offset: -1})
	}
	var se *eng.SyntaxError
	if errors.As(err, &se) {
		return AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: se.Msg, Offset: se.Offset, Cause: err})
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: "unexpected end of input", Offset: -1, Cause: err})
	}
	return AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: err.Error(), Offset: -1, Cause: err})
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Path: "/", Code: code, Message: msg, Offset: -1})
}

// Canceled wraps a context error as a canceled issue.
func Canceled(err error) Issues {
	return AppendIssues(nil, Issue{Path: "/", Code: CodeCanceled, Message: i18n.T(CodeCanceled, nil), Cause: err, Offset: -1})
}
