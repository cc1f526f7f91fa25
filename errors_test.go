package clausewitz

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := Issues{
		{Code: CodeMissingField, Path: "/meta_data"},
		{Code: CodeMalformedDate, Path: "/living/1/birth"},
		{Code: CodeTypeMismatch, Path: "/living/2/gold"},
		{Code: CodeTypeMismatch, Path: "/living/3/gold"},
	}
	want := "missing_field at /meta_data; malformed_date at /living/1/birth; type_mismatch at /living/2/gold; ... (total 4)"
	if got := iss.Error(); got != want {
		t.Fatalf("got %q", got)
	}
	if !iss.HasCode(CodeMalformedDate) || iss.HasCode(CodeCanceled) {
		t.Fatalf("HasCode broken")
	}
	if iss.Structural() {
		t.Fatalf("field issues are not structural")
	}
	if !append(iss, Issue{Code: CodeDepthExceeded}).Structural() {
		t.Fatalf("depth_exceeded is structural")
	}
}

func TestIssues_Rebase(t *testing.T) {
	iss := Issues{{Path: "/"}, {Path: "/birth"}, {Path: "gold"}}
	got := iss.Rebase("/living/7")
	want := []string{"/living/7", "/living/7/birth", "/living/7/gold"}
	for i := range want {
		if got[i].Path != want[i] {
			t.Fatalf("path %d = %q, want %q", i, got[i].Path, want[i])
		}
	}
	if iss[1].Path != "/birth" {
		t.Fatalf("Rebase must not mutate the receiver")
	}
}

func TestAsIssues_Wrapped(t *testing.T) {
	err := fmt.Errorf("decode: %w", Issues{{Code: CodeParseError, Path: "/"}})
	iss, ok := AsIssues(err)
	if !ok || iss[0].Code != CodeParseError {
		t.Fatalf("iss=%v ok=%v", iss, ok)
	}
	if _, ok := AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain error is not Issues")
	}
	if Issues(nil).OrNil() != nil {
		t.Fatalf("empty Issues must be a nil error")
	}
}

func TestCanceled_KeepsCause(t *testing.T) {
	iss := Canceled(context.Canceled)
	if iss[0].Code != CodeCanceled || !errors.Is(iss[0].Cause, context.Canceled) {
		t.Fatalf("unexpected %+v", iss[0])
	}
}

func TestPathRef(t *testing.T) {
	p := Root().Field("living").Index(3).Field("a/b~c")
	if got := p.Pointer(); got != "/living/3/a~1b~0c" {
		t.Fatalf("pointer=%q", got)
	}
	if Root().Pointer() != "/" {
		t.Fatalf("root pointer")
	}
	it := At("/living/3").Field("birth").Issue(CodeMalformedDate, "bad", "got", "1066.2.30")
	if it.Path != "/living/3/birth" || it.Params["got"] != "1066.2.30" {
		t.Fatalf("issue=%+v", it)
	}
}

func TestSeverity(t *testing.T) {
	for _, s := range []Severity{Ignore, Warn, Error} {
		got, err := ParseSeverity(s.String())
		if err != nil || got != s {
			t.Fatalf("round trip %v: %v %v", s, got, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDecodeOpt_Defaults(t *testing.T) {
	opt := DecodeOptFrom(context.Background())
	if opt.MaxDepth != DefaultMaxDepth || opt.Workers != 1 || opt.Logger == nil {
		t.Fatalf("defaults not applied: %+v", opt)
	}
	var sunk []Issue
	ctx := WithDecodeOpt(context.Background(), DecodeOpt{FailFast: true, IssueSink: func(it Issue) { sunk = append(sunk, it) }})
	if !IsFailFast(ctx) {
		t.Fatalf("fail fast not carried")
	}
	DecodeOptFrom(ctx).Warn(Issue{Code: CodeDuplicateKey})
	if len(sunk) != 1 {
		t.Fatalf("warn not forwarded")
	}
}
