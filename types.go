package clausewitz

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxDepth bounds container nesting when DecodeOpt.MaxDepth is zero.
const DefaultMaxDepth = 512

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// ParseSeverity parses "ignore", "warn" or "error".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ignore":
		return Ignore, nil
	case "warn":
		return Warn, nil
	case "error":
		return Error, nil
	}
	return Ignore, fmt.Errorf("clausewitz: unknown severity %q", s)
}

func (s Severity) String() string {
	switch s {
	case Warn:
		return "warn"
	case Error:
		return "error"
	}
	return "ignore"
}

// Strictness configures how tolerated-but-suspicious input is reported.
type Strictness struct {
	// OnDuplicateKey applies when a non-list field sees its key more than
	// once. The last occurrence always wins; Warn logs and forwards an
	// issue to IssueSink, Error also records a duplicate_key field issue.
	OnDuplicateKey Severity
}

// DecodeOpt bundles decoding options. The zero value is usable.
type DecodeOpt struct {
	Strictness Strictness
	// MaxDepth bounds container nesting; 0 means DefaultMaxDepth.
	MaxDepth int
	// MaxBytes caps the consumed input; 0 disables the cap.
	MaxBytes int64
	// Era is the year convention for every date field.
	Era Era
	// FailFast stops binding at the first field issue.
	FailFast bool
	// Workers is the number of goroutines used for keyed collections and
	// independent top-level fields; values below 2 decode sequentially.
	Workers int
	// Logger receives diagnostics; nil means zap.NewNop().
	Logger *zap.Logger
	// IssueSink receives warnings that are not returned as errors. It is
	// called from the goroutine running the decode, never concurrently.
	IssueSink func(Issue)
}

// WithDefaults returns o with zero fields replaced by their defaults.
func (o DecodeOpt) WithDefaults() DecodeOpt {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Warn forwards a non-fatal issue to the sink and the logger.
func (o DecodeOpt) Warn(it Issue) {
	if o.IssueSink != nil {
		o.IssueSink(it)
	}
	if o.Logger != nil {
		o.Logger.Warn(it.Message, zap.String("code", it.Code), zap.String("path", it.Path), zap.String("record", it.Record))
	}
}

func lastOpt(opts []DecodeOpt) DecodeOpt {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return opt.WithDefaults()
}
