package clausewitz_test

import (
	"bytes"
	"context"
	"testing"

	cw "github.com/reoring/clausewitz"
	"github.com/reoring/clausewitz/dsl"
	"github.com/reoring/clausewitz/tree"
)

func mustTree(t *testing.T, src cw.Source, opts ...cw.DecodeOpt) tree.Node {
	t.Helper()
	n, err := cw.ParseTree(context.Background(), src, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return n
}

func firstIssue(t *testing.T, err error) cw.Issue {
	t.Helper()
	iss, ok := cw.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected issues, got %v", err)
	}
	return iss[0]
}

func TestParseTree_Text(t *testing.T) {
	data := []byte("SAV0102abcdef0000\n" +
		"version=\"1.12.4\" # trailing comment\n" +
		"a=1\n" +
		"a=2\n" +
		"ids={ 1 2 3 }\n" +
		"empty={}\n" +
		"nested={ x=\"quoted \\\"text\\\"\" y={ z=yes } }\n")
	n := mustTree(t, cw.TextBytes(data))
	if n.Kind != tree.KindObject {
		t.Fatalf("root kind=%s", n.Kind)
	}
	keys := []string{}
	for _, p := range n.Pairs {
		keys = append(keys, p.Key)
	}
	want := []string{"version", "a", "a", "ids", "empty", "nested"}
	if len(keys) != len(want) {
		t.Fatalf("keys=%v want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys=%v want %v", keys, want)
		}
	}
	if v, _ := n.Last("a"); v.Text != "2" {
		t.Fatalf("last a=%q", v.Text)
	}
	ids, _ := n.Last("ids")
	if ids.Kind != tree.KindArray || len(ids.Items) != 3 {
		t.Fatalf("ids=%+v", ids)
	}
	if e, _ := n.Last("empty"); !e.IsEmptyContainer() {
		t.Fatalf("expected empty container, got %+v", e)
	}
	nested, _ := n.Last("nested")
	x, _ := nested.Last("x")
	if !x.Quoted || x.Text != `quoted "text"` {
		t.Fatalf("x=%+v", x)
	}
}

func TestParseTree_JSON(t *testing.T) {
	data := []byte(`{"a": null, "b": true, "c": [1, null, 2.5], "a": 3}`)
	n := mustTree(t, cw.JSONBytes(data))
	if len(n.Pairs) != 3 {
		t.Fatalf("pairs=%+v", n.Pairs)
	}
	if n.Pairs[0].Key != "b" || n.Pairs[0].Value.Text != "yes" {
		t.Fatalf("bool not mapped to yes: %+v", n.Pairs[0])
	}
	c := n.Pairs[1].Value
	if len(c.Items) != 2 || c.Items[1].Text != "2.5" {
		t.Fatalf("null array items should be dropped: %+v", c)
	}
	if n.Pairs[2].Key != "a" || n.Pairs[2].Value.Text != "3" {
		t.Fatalf("repeated key should survive: %+v", n.Pairs[2])
	}
}

func TestParseTree_TextAndJSONAgree(t *testing.T) {
	text := mustTree(t, cw.TextBytes([]byte(`a={ b="x" c={ 1 2 } }`)))
	js := mustTree(t, cw.JSONBytes([]byte(`{"a": {"b": "x", "c": [1, 2]}}`)))
	if !tree.Equal(text, js) {
		t.Fatalf("trees differ:\ntext=%+v\njson=%+v", text, js)
	}
}

func TestParseTree_DepthExceeded(t *testing.T) {
	var sunk []cw.Issue
	opt := cw.DecodeOpt{MaxDepth: 1, IssueSink: func(it cw.Issue) { sunk = append(sunk, it) }}
	_, err := cw.ParseTree(context.Background(), cw.TextBytes([]byte("a={ b={ c=1 } }")), opt)
	it := firstIssue(t, err)
	if it.Code != cw.CodeDepthExceeded || it.Path != "/a/b" {
		t.Fatalf("unexpected issue: %+v", it)
	}
	if len(sunk) != 1 || sunk[0].Code != cw.CodeDepthExceeded {
		t.Fatalf("issue sink not called: %+v", sunk)
	}

	if _, err := cw.ParseTree(context.Background(), cw.TextBytes([]byte("a={ b=1 }")), opt); err != nil {
		t.Fatalf("depth 1 should pass: %v", err)
	}
}

func TestParseTree_MaxBytes(t *testing.T) {
	_, err := cw.ParseTree(context.Background(), cw.TextBytes([]byte("a=1 b=2 c=3")), cw.DecodeOpt{MaxBytes: 5})
	if it := firstIssue(t, err); it.Code != cw.CodeTruncated {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func TestParseTree_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  cw.Source
	}{
		{"unbalanced", cw.TextBytes([]byte("a=1 }"))},
		{"unterminated container", cw.TextBytes([]byte("a={ b=1"))},
		{"unterminated quote", cw.TextBytes([]byte(`a="abc`))},
		{"dangling equals", cw.TextBytes([]byte("a= =1"))},
		{"key in array", cw.TextBytes([]byte("a={ 1 b=2 }"))},
		{"json truncated", cw.JSONBytes([]byte(`{"a": [1, 2`))},
		{"json trailing", cw.JSONBytes([]byte(`{"a": 1} {"b": 2}`))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cw.ParseTree(context.Background(), tt.src)
			if it := firstIssue(t, err); it.Code != cw.CodeParseError {
				t.Fatalf("unexpected issue: %+v", it)
			}
		})
	}
}

func TestParseTree_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cw.ParseTree(ctx, cw.TextBytes([]byte("a=1")))
	if it := firstIssue(t, err); it.Code != cw.CodeCanceled {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func TestParseTree_MarshalRescansSeparators(t *testing.T) {
	n := tree.Object(
		tree.KV("a;b", tree.Scalar("1")),
		tree.KV("c", tree.Scalar("x;y")),
		tree.KV("d", tree.Array(tree.Scalar("p;q"), tree.Scalar("r"))),
	)
	back := mustTree(t, cw.TextBytes(tree.Marshal(n)))
	if len(back.Pairs) != 3 {
		t.Fatalf("pairs=%+v", back.Pairs)
	}
	if back.Pairs[0].Key != "a;b" || back.Pairs[0].Value.Text != "1" {
		t.Fatalf("key split: %+v", back.Pairs[0])
	}
	if back.Pairs[1].Value.Text != "x;y" {
		t.Fatalf("value split: %+v", back.Pairs[1])
	}
	if d := back.Pairs[2].Value; len(d.Items) != 2 || d.Items[0].Text != "p;q" {
		t.Fatalf("array item split: %+v", d)
	}
}

func TestParseSection(t *testing.T) {
	data := []byte("skip={ deep={ 1 2 } } meta={ x=1 } after=\"unterminated")
	n, err := cw.ParseSection(context.Background(), cw.TextBytes(data), "meta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := tree.Object(tree.KV("meta", tree.Object(tree.KV("x", tree.Scalar("1")))))
	if !tree.Equal(n, want) {
		t.Fatalf("section=%+v", n)
	}

	n, err = cw.ParseSection(context.Background(), cw.TextBytes([]byte("a=1 b={ c=2 }")), "meta")
	if err != nil || len(n.Pairs) != 0 || n.Kind != tree.KindObject {
		t.Fatalf("missing section should be empty: %+v %v", n, err)
	}
}

func TestDetectFormat(t *testing.T) {
	if f := cw.DetectFormat([]byte("  \n{\"a\":1}")); f != cw.FormatJSON {
		t.Fatalf("got %s", f)
	}
	if f := cw.DetectFormat([]byte("SAV010\nmeta_data={}")); f != cw.FormatText {
		t.Fatalf("got %s", f)
	}
	if _, err := cw.ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

type streamed struct {
	A *int64 `ck:"a"`
}

func TestStreamDecode(t *testing.T) {
	s := dsl.MustBind[streamed](dsl.Record("Streamed").Field("a", dsl.Int()).Optional().Descriptor(), nil)

	v, err := cw.StreamDecode(context.Background(), s, bytes.NewReader([]byte("a=42")), cw.FormatText)
	if err != nil || v.A == nil || *v.A != 42 {
		t.Fatalf("v=%+v err=%v", v, err)
	}

	_, err = cw.StreamDecode(context.Background(), s, bytes.NewReader([]byte(`{"a": 4242}`)), cw.FormatJSON, cw.DecodeOpt{MaxBytes: 4})
	if it := firstIssue(t, err); it.Code != cw.CodeTruncated {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func TestSafeDecode(t *testing.T) {
	s := dsl.MustBind[streamed](dsl.Record("Streamed").Field("a", dsl.Int()).Required().Descriptor(), nil)
	if _, ok := cw.SafeDecode(context.Background(), s, tree.Object()); ok {
		t.Fatalf("expected failure for missing required field")
	}
	v, ok := cw.SafeDecode(context.Background(), s, tree.Object(tree.KV("a", tree.Scalar("7"))))
	if !ok || *v.A != 7 {
		t.Fatalf("v=%+v ok=%v", v, ok)
	}
}
