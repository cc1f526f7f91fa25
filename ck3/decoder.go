package ck3

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	cw "github.com/reoring/clausewitz"
	"github.com/reoring/clausewitz/dsl"
	"github.com/reoring/clausewitz/tree"
)

// Decoder is the root decoder for a save. It is a clausewitz.Schema, so it
// can be passed to clausewitz.DecodeFrom.
//
// With DecodeOpt.Workers >= 2 the metadata and the living map are decoded
// concurrently and the living map is further split into Workers partitions.
// Otherwise the whole document is bound sequentially. Both paths return the
// same value and the same issues in the same order, and IssueSink is only
// called from the goroutine running Decode.
type Decoder struct {
	full   cw.Schema[Gamestate]
	meta   dsl.Deferred[metaSection]
	living dsl.Deferred[livingSection]
}

type metaSection struct {
	MetaData Metadata `ck:"meta_data"`
}

type livingSection struct {
	Living map[uint64]LivingCharacter `ck:"living"`
}

// NewDecoder builds and freezes the schema with reg.
func NewDecoder(reg cw.Transforms) (*Decoder, error) {
	d := newDescriptors()
	full, err := dsl.Bind[Gamestate](d.gamestate, reg)
	if err != nil {
		return nil, err
	}
	metaRoot := dsl.Record("Gamestate").
		Field("meta_data", dsl.RecordOf(d.meta)).Required()
	meta, err := dsl.BindDeferred[metaSection](metaRoot.Descriptor(), reg)
	if err != nil {
		return nil, err
	}
	livingRoot := dsl.Record("Gamestate").
		Field("living", dsl.RecordOf(d.living)).Keyed(dsl.Uint())
	living, err := dsl.BindDeferred[livingSection](livingRoot.Descriptor(), reg)
	if err != nil {
		return nil, err
	}
	return &Decoder{full: full, meta: meta, living: living}, nil
}

// MustNewDecoder is like NewDecoder but panics on error.
func MustNewDecoder(reg cw.Transforms) *Decoder {
	d, err := NewDecoder(reg)
	if err != nil {
		panic(err)
	}
	return d
}

var defaultDecoder = MustNewDecoder(Transforms(DefaultGoldScale))

// Default returns the decoder using DefaultGoldScale.
func Default() *Decoder { return defaultDecoder }

func (d *Decoder) Descriptor() *cw.RecordDescriptor { return d.full.Descriptor() }

// Encode renders g back into a token tree.
func (d *Decoder) Encode(ctx context.Context, g Gamestate) (cw.Node, error) {
	return d.full.Encode(ctx, g)
}

// Decode binds the root object n.
func (d *Decoder) Decode(ctx context.Context, n cw.Node) (Gamestate, error) {
	opt := cw.DecodeOptFrom(ctx)
	if opt.Workers < 2 || (n.Kind != tree.KindObject && !n.IsEmptyContainer()) {
		return d.full.Decode(ctx, n)
	}
	if err := ctx.Err(); err != nil {
		return Gamestate{}, cw.Canceled(err)
	}
	start := time.Now()
	metaRoot, livingRoot := split(n)

	var (
		meta                   metaSection
		living                 livingSection
		metaIss, livingIss     cw.Issues
		metaWarns, livingWarns cw.Issues
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		meta, metaWarns, err = d.meta.DecodeDeferred(ctx, metaRoot)
		metaIss = issuesOf(err)
		return nil
	})
	g.Go(func() error {
		var err error
		living, livingWarns, err = d.living.DecodeDeferred(ctx, livingRoot)
		livingIss = issuesOf(err)
		return nil
	})
	_ = g.Wait()

	// A sequential decode binds meta_data first and stops there on a
	// structural issue, or on any issue under FailFast.
	for _, it := range metaWarns {
		opt.Warn(it)
	}
	if metaIss.Structural() {
		return Gamestate{}, metaIss
	}
	if opt.FailFast && len(metaIss) > 0 {
		return Gamestate{MetaData: meta.MetaData}, metaIss
	}
	for _, it := range livingWarns {
		opt.Warn(it)
	}
	var iss cw.Issues
	iss = append(iss, metaIss...)
	iss = append(iss, livingIss...)
	if livingIss.Structural() {
		return Gamestate{}, iss
	}
	opt.Logger.Debug("gamestate decoded",
		zap.Int("living", len(living.Living)),
		zap.Int("workers", opt.Workers),
		zap.Int("issues", len(iss)),
		zap.Duration("elapsed", time.Since(start)))
	return Gamestate{MetaData: meta.MetaData, Living: living.Living}, iss.OrNil()
}

// split projects the root pairs onto the two independent sections.
func split(n tree.Node) (meta, living tree.Node) {
	meta, living = tree.Object(), tree.Object()
	meta.Offset, living.Offset = n.Offset, n.Offset
	for _, p := range n.Pairs {
		switch p.Key {
		case "meta_data":
			meta.Pairs = append(meta.Pairs, p)
		case "living":
			living.Pairs = append(living.Pairs, p)
		}
	}
	return meta, living
}

func issuesOf(err error) cw.Issues {
	if err == nil {
		return nil
	}
	if iss, ok := cw.AsIssues(err); ok {
		return iss
	}
	return cw.Issues{{Path: "/", Code: cw.CodeParseError, Message: err.Error(), Cause: err, Offset: -1}}
}

// Parse decodes a save held in memory, detecting text or JSON input.
func Parse(ctx context.Context, data []byte, opts ...cw.DecodeOpt) (Gamestate, error) {
	return cw.DecodeFrom(ctx, cw.Schema[Gamestate](Default()), cw.SourceFor(cw.DetectFormat(data), data), opts...)
}

// ParseMetadata decodes only the meta_data section. Input after the section
// is not read, so this stays cheap on large saves.
func ParseMetadata(ctx context.Context, data []byte, opts ...cw.DecodeOpt) (Metadata, error) {
	return Default().DecodeMetadata(ctx, cw.SourceFor(cw.DetectFormat(data), data), opts...)
}

// DecodeMetadata decodes the meta_data section read from src.
func (d *Decoder) DecodeMetadata(ctx context.Context, src cw.Source, opts ...cw.DecodeOpt) (Metadata, error) {
	var opt cw.DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	n, err := cw.ParseSection(ctx, src, "meta_data", opt)
	if err != nil {
		return Metadata{}, err
	}
	v, err := d.meta.Decode(cw.WithDecodeOpt(ctx, opt), n)
	return v.MetaData, err
}
