package main

import (
	"context"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	cw "github.com/reoring/clausewitz"
	"github.com/reoring/clausewitz/ck3"
	"github.com/reoring/clausewitz/tree"
)

var output string

var decodeCmd = &cobra.Command{
	Use:   "decode <save|->",
	Short: "Decode a save and print the game state",
	Long: `Decodes the save into the typed game state and prints it as JSON or YAML.
Field issues are written to stderr; the partial value is still printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

var checkCmd = &cobra.Command{
	Use:   "check <save|->",
	Short: "Report every decode issue",
	Long:  `Decodes the save and lists each issue. Exits non-zero when any issue is found.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

var treeCmd = &cobra.Command{
	Use:   "tree <save|->",
	Short: "Print the untyped token tree as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <save|->",
	Short: "Rewrite a save in canonical text form",
	Args:  cobra.ExactArgs(1),
	RunE:  runFmt,
}

// readInput reads the named file, or stdin for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	return b, nil
}

func source(data []byte) (cw.Source, error) {
	if format == "" || format == "auto" {
		return cw.SourceFor(cw.DetectFormat(data), data), nil
	}
	f, err := cw.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return cw.SourceFor(f, data), nil
}

func decodeOpt() cw.DecodeOpt {
	return cfg.DecodeOpt(logger)
}

func decodeSave(ctx context.Context, cmd *cobra.Command, name string) (ck3.Gamestate, error) {
	data, err := readInput(cmd, name)
	if err != nil {
		return ck3.Gamestate{}, err
	}
	src, err := source(data)
	if err != nil {
		return ck3.Gamestate{}, err
	}
	dec, err := ck3.NewDecoder(cfg.Transforms())
	if err != nil {
		return ck3.Gamestate{}, fmt.Errorf("failed to build schema: %w", err)
	}
	logger.Debug("decoding save", zap.String("file", name), zap.Int("bytes", len(data)))
	return cw.DecodeFrom(ctx, cw.Schema[ck3.Gamestate](dec), src, decodeOpt())
}

func runDecode(cmd *cobra.Command, args []string) error {
	g, err := decodeSave(cmd.Context(), cmd, args[0])
	iss, ok := cw.AsIssues(err)
	if err != nil && (!ok || iss.Structural()) {
		return err
	}
	for _, it := range iss {
		logger.Warn("decode issue", zap.String("code", it.Code), zap.String("path", it.Path), zap.String("message", it.Message))
	}

	var out []byte
	switch output {
	case "json":
		out, err = json.MarshalIndent(g, "", "  ")
	case "yaml":
		out, err = yaml.Marshal(g)
	default:
		return fmt.Errorf("unknown output encoding %q", output)
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(append(out, '\n'))
	return err
}

func runCheck(cmd *cobra.Command, args []string) error {
	g, err := decodeSave(cmd.Context(), cmd, args[0])
	if err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d living characters\n", len(g.Living))
		return nil
	}
	iss, ok := cw.AsIssues(err)
	if !ok {
		return err
	}
	for _, it := range iss {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", it.Code, it.Path, it.Message)
	}
	return fmt.Errorf("%d issue(s) found", len(iss))
}

func parseTree(cmd *cobra.Command, name string) (tree.Node, error) {
	data, err := readInput(cmd, name)
	if err != nil {
		return tree.Node{}, err
	}
	src, err := source(data)
	if err != nil {
		return tree.Node{}, err
	}
	return cw.ParseTree(cmd.Context(), src, decodeOpt())
}

func runTree(cmd *cobra.Command, args []string) error {
	n, err := parseTree(cmd, args[0])
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(toJSONNode(n), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(append(out, '\n'))
	return err
}

func runFmt(cmd *cobra.Command, args []string) error {
	n, err := parseTree(cmd, args[0])
	if err != nil {
		return err
	}
	return tree.Encode(cmd.OutOrStdout(), n)
}

// jsonNode keeps object pairs ordered and repeated, which a JSON object
// cannot.
type jsonNode struct {
	Kind   string     `json:"kind"`
	Text   string     `json:"text,omitempty"`
	Quoted bool       `json:"quoted,omitempty"`
	Items  []jsonNode `json:"items,omitempty"`
	Pairs  []jsonPair `json:"pairs,omitempty"`
}

type jsonPair struct {
	Key   string   `json:"key"`
	Value jsonNode `json:"value"`
}

func toJSONNode(n tree.Node) jsonNode {
	out := jsonNode{Kind: n.Kind.String(), Text: n.Text, Quoted: n.Quoted}
	for _, it := range n.Items {
		out.Items = append(out.Items, toJSONNode(it))
	}
	for _, p := range n.Pairs {
		out.Pairs = append(out.Pairs, jsonPair{Key: p.Key, Value: toJSONNode(p.Value)})
	}
	return out
}
