package tree

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Marshal renders a root object node as canonical text (no surrounding
// braces). Non-object roots are rendered as a single value.
func Marshal(n Node) []byte {
	var buf bytes.Buffer
	_ = Encode(&buf, n)
	return buf.Bytes()
}

// Encode writes n to w as canonical text: one pair per line, tab indented,
// quoted scalars re-escaped.
func Encode(w io.Writer, n Node) error {
	bw := bufio.NewWriter(w)
	if n.Kind == KindObject {
		for _, p := range n.Pairs {
			writePair(bw, p, 0)
		}
	} else {
		writeValue(bw, n, 0)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writeIndent(w *bufio.Writer, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteByte('\t')
	}
}

func writeScalar(w *bufio.Writer, text string, quoted bool) {
	if quoted || needsQuote(text) {
		w.WriteByte('"')
		w.WriteString(quoteEscaper.Replace(text))
		w.WriteByte('"')
		return
	}
	w.WriteString(text)
}

// needsQuote reports whether a bare token would not survive a rescan.
func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, " \t\r\n{}=\"#;")
}

func writePair(w *bufio.Writer, p Pair, depth int) {
	writeIndent(w, depth)
	writeScalar(w, p.Key, p.KeyQuoted)
	w.WriteByte('=')
	writeValue(w, p.Value, depth)
	w.WriteByte('\n')
}

func writeValue(w *bufio.Writer, n Node, depth int) {
	switch n.Kind {
	case KindScalar:
		writeScalar(w, n.Text, n.Quoted)
	case KindArray:
		if len(n.Items) == 0 {
			w.WriteString("{}")
			return
		}
		nested := false
		for _, it := range n.Items {
			if it.Kind != KindScalar {
				nested = true
				break
			}
		}
		if !nested {
			w.WriteString("{ ")
			for _, it := range n.Items {
				writeScalar(w, it.Text, it.Quoted)
				w.WriteByte(' ')
			}
			w.WriteByte('}')
			return
		}
		w.WriteString("{\n")
		for _, it := range n.Items {
			writeIndent(w, depth+1)
			writeValue(w, it, depth+1)
			w.WriteByte('\n')
		}
		writeIndent(w, depth)
		w.WriteByte('}')
	case KindObject:
		if len(n.Pairs) == 0 {
			w.WriteString("{}")
			return
		}
		w.WriteString("{\n")
		for _, p := range n.Pairs {
			writePair(w, p, depth+1)
		}
		writeIndent(w, depth)
		w.WriteByte('}')
	}
}
