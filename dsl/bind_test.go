package dsl

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	cw "github.com/reoring/clausewitz"
	"github.com/reoring/clausewitz/codec"
	"github.com/reoring/clausewitz/tree"
)

type modifier struct {
	Name string `ck:"modifier"`
	Days *int64 `ck:"days"`
}

type alive struct {
	Gold     *float64   `ck:"gold"`
	Health   *float64   `ck:"health"`
	Modifier []modifier `ck:"modifier"`
}

type person struct {
	Name     string   `ck:"name"`
	Birth    cw.Date  `ck:"birth"`
	Traits   []int    `ck:"traits"`
	Alive    *alive   `ck:"alive_data"`
	Spouse   []uint64 `ck:"spouse"`
	Nickname *string  `ck:"nickname"`
}

type world struct {
	Date   cw.Date           `ck:"date"`
	Living map[uint64]person `ck:"living"`
}

func personRecord() *recordBuilder {
	mod := Record("Modifier").
		Field("modifier", String()).Required().
		Field("days", Int()).Optional()
	al := Record("AliveData").
		Field("gold", Reencoded()).Optional().
		Field("health", Float()).Optional().
		Field("modifier", RecordOf(mod.Descriptor())).Duplicated()
	return Record("Person").
		Field("name", String()).Required().
		Field("birth", Date()).Required().
		Field("traits", ListOf(Int())).Optional().
		Field("alive_data", RecordOf(al.Descriptor())).Optional().
		Field("spouse", Uint()).Duplicated().
		Field("nickname", String()).Alias("nick").Optional()
}

func goldScale() cw.Transforms {
	return cw.Transforms{}.With("AliveData.gold", codec.Scale(100))
}

func worldSchema(t *testing.T) cw.Schema[world] {
	t.Helper()
	w := Record("World").
		Field("date", Date()).Required().
		Field("living", RecordOf(personRecord().Descriptor())).Keyed(Uint())
	s, err := Bind[world](w.Descriptor(), goldScale())
	require.NoError(t, err)
	return s
}

func personSchema(t *testing.T) cw.Schema[person] {
	t.Helper()
	s, err := Bind[person](personRecord().Descriptor(), goldScale())
	require.NoError(t, err)
	return s
}

func decodeText[T any](t *testing.T, s cw.Schema[T], src string, opt cw.DecodeOpt) (T, error) {
	t.Helper()
	return cw.DecodeFrom(context.Background(), s, cw.TextBytes([]byte(src)), opt)
}

const worldSave = `date=1066.9.15
living={
	1={
		name="Ragnar"
		birth=1020.1.1
		traits={ 1 2 3 }
		alive_data={
			gold=1500
			health=4.5
			modifier={ modifier=blessed days=30 }
			modifier={ modifier=cursed }
		}
		spouse=2
		spouse=3
		unknown_thing={ a=b }
	}
	2={ name="Aslaug" birth=1025.2.3 nick="Snake" }
	3=none
}
`

func ptr[T any](v T) *T { return &v }

func TestDecode_World(t *testing.T) {
	got, err := decodeText(t, worldSchema(t), worldSave, cw.DecodeOpt{})
	require.NoError(t, err)

	want := world{
		Date: cw.Date{Year: 1066, Month: 9, Day: 15},
		Living: map[uint64]person{
			1: {
				Name:   "Ragnar",
				Birth:  cw.Date{Year: 1020, Month: 1, Day: 1},
				Traits: []int{1, 2, 3},
				Alive: &alive{
					Gold:   ptr(15.0),
					Health: ptr(4.5),
					Modifier: []modifier{
						{Name: "blessed", Days: ptr(int64(30))},
						{Name: "cursed"},
					},
				},
				Spouse: []uint64{2, 3},
			},
			2: {
				Name:     "Aslaug",
				Birth:    cw.Date{Year: 1025, Month: 2, Day: 3},
				Nickname: ptr("Snake"),
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded world mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_ReencodeOnlyFlaggedField(t *testing.T) {
	got, err := decodeText(t, personSchema(t), `name=x birth=1.1.1 alive_data={ gold=1500 health=1500 }`, cw.DecodeOpt{})
	require.NoError(t, err)
	require.NotNil(t, got.Alive)
	assert.Equal(t, 15.0, *got.Alive.Gold)
	assert.Equal(t, 1500.0, *got.Alive.Health)
}

func TestDecode_MissingRequiredKeepsSiblings(t *testing.T) {
	got, err := decodeText(t, personSchema(t), `birth=1000.13.1 spouse=7 nick=bob`, cw.DecodeOpt{})
	iss, ok := cw.AsIssues(err)
	require.True(t, ok, "expected Issues, got %v", err)
	require.Len(t, iss, 2)
	assert.Equal(t, cw.CodeMissingField, iss[0].Code)
	assert.Equal(t, "/name", iss[0].Path)
	assert.Equal(t, "Person", iss[0].Record)
	assert.Equal(t, cw.CodeMalformedDate, iss[1].Code)
	assert.Equal(t, "/birth", iss[1].Path)
	// siblings still decoded
	assert.Equal(t, []uint64{7}, got.Spouse)
	require.NotNil(t, got.Nickname)
	assert.Equal(t, "bob", *got.Nickname)
}

func TestDecode_FailFastStopsAtFirstIssue(t *testing.T) {
	_, err := decodeText(t, personSchema(t), `birth=1000.13.1`, cw.DecodeOpt{FailFast: true})
	iss, ok := cw.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, cw.CodeMissingField, iss[0].Code)
}

func TestDecode_NestedRecordShapeMismatch(t *testing.T) {
	got, err := decodeText(t, personSchema(t), `name=a birth=1.1.1 alive_data=5`, cw.DecodeOpt{})
	iss, ok := cw.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, cw.CodeTypeMismatch, iss[0].Code)
	assert.Equal(t, "/alive_data", iss[0].Path)
	assert.Nil(t, got.Alive)
	assert.Equal(t, "a", got.Name)
}

func TestDecode_FailedEntitiesAreDropped(t *testing.T) {
	src := `date=1.1.1
living={
	1={ name=a birth=1000.13.1 }
	2={ name=b birth=1000.1.1 alive_data={ modifier={ modifier=x days=oops } } }
	3={ name=c birth=1000.1.1 }
}`
	got, err := decodeText(t, worldSchema(t), src, cw.DecodeOpt{})
	iss, ok := cw.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 2)

	assert.Equal(t, cw.CodeMalformedDate, iss[0].Code)
	assert.Equal(t, "/living/1/birth", iss[0].Path)
	assert.Equal(t, "Person", iss[0].Record)
	assert.Equal(t, cw.CodeTypeMismatch, iss[1].Code)
	assert.Equal(t, "/living/2/alive_data/modifier/0/days", iss[1].Path)
	assert.Equal(t, "Modifier", iss[1].Record)

	require.Len(t, got.Living, 1)
	assert.Equal(t, "c", got.Living[3].Name)
}

func TestDecode_FailedDuplicatedElementIsDropped(t *testing.T) {
	src := `name=a birth=1.1.1 alive_data={ modifier={ modifier=x days=oops } modifier={ modifier=y days=2 } }`
	got, err := decodeText(t, personSchema(t), src, cw.DecodeOpt{})
	iss, ok := cw.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, "/alive_data/modifier/0/days", iss[0].Path)

	require.NotNil(t, got.Alive)
	require.Len(t, got.Alive.Modifier, 1)
	assert.Equal(t, "y", got.Alive.Modifier[0].Name)
	assert.Equal(t, int64(2), *got.Alive.Modifier[0].Days)
}

type named struct {
	Name string `ck:"name"`
	Age  *int   `ck:"age"`
}

func namedSchema(t *testing.T) cw.Schema[named] {
	t.Helper()
	return MustBind[named](Record("Named").
		Field("name", String()).Required().
		Field("age", Int()).Optional().Descriptor(), nil)
}

func TestDecode_DuplicateKeySeverity(t *testing.T) {
	const src = `name=a age=1 name=b`

	t.Run("ignore", func(t *testing.T) {
		got, err := decodeText(t, namedSchema(t), src, cw.DecodeOpt{})
		require.NoError(t, err)
		assert.Equal(t, "b", got.Name)
	})

	t.Run("warn", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		var sunk []cw.Issue
		opt := cw.DecodeOpt{
			Strictness: cw.Strictness{OnDuplicateKey: cw.Warn},
			Logger:     zap.New(core),
			IssueSink:  func(it cw.Issue) { sunk = append(sunk, it) },
		}
		got, err := decodeText(t, namedSchema(t), src, opt)
		require.NoError(t, err)
		assert.Equal(t, "b", got.Name)
		require.Len(t, sunk, 1)
		assert.Equal(t, cw.CodeDuplicateKey, sunk[0].Code)
		assert.Equal(t, "/name", sunk[0].Path)
		assert.Equal(t, 1, logs.FilterField(zap.String("code", cw.CodeDuplicateKey)).Len())
	})

	t.Run("error", func(t *testing.T) {
		got, err := decodeText(t, namedSchema(t), src, cw.DecodeOpt{Strictness: cw.Strictness{OnDuplicateKey: cw.Error}})
		iss, ok := cw.AsIssues(err)
		require.True(t, ok)
		assert.True(t, iss.HasCode(cw.CodeDuplicateKey))
		assert.Equal(t, "b", got.Name)
		require.NotNil(t, got.Age)
		assert.Equal(t, 1, *got.Age)
	})
}

type chain struct {
	Child *chain `ck:"child"`
}

func chainSchema(t *testing.T) cw.Schema[chain] {
	t.Helper()
	b := Record("Chain")
	b.Field("child", RecordOf(b.Descriptor())).Optional()
	return MustBind[chain](b.Descriptor(), nil)
}

func nested(depth int) tree.Node {
	n := tree.Object()
	for i := 0; i < depth; i++ {
		n = tree.Object(tree.KV("child", n))
	}
	return n
}

func TestDecode_DepthGuard(t *testing.T) {
	s := chainSchema(t)
	ctx := cw.WithDecodeOpt(context.Background(), cw.DecodeOpt{})

	_, err := s.Decode(ctx, nested(100))
	require.NoError(t, err)

	v, err := s.Decode(ctx, nested(600))
	iss, ok := cw.AsIssues(err)
	require.True(t, ok)
	assert.True(t, iss.HasCode(cw.CodeDepthExceeded))
	assert.Nil(t, v.Child, "structural issues return the zero value")
}

func TestDecode_UnknownTopLevelShape(t *testing.T) {
	_, err := namedSchema(t).Decode(context.Background(), tree.Scalar("x"))
	iss, ok := cw.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, cw.CodeUnknownTopLevelShape, iss[0].Code)
}

func TestDecode_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cw.DecodeFrom(ctx, worldSchema(t), cw.TextBytes([]byte(worldSave)))
	iss, ok := cw.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, cw.CodeCanceled, iss[0].Code)
}

func manyPeople(n int) string {
	b := &strings.Builder{}
	b.WriteString("date=1200.1.1\nliving={\n")
	for i := 1; i <= n; i++ {
		birth := fmt.Sprintf("%d.%d.%d", 1100+i%50, 1+i%12, 1+i%28)
		if i%17 == 0 {
			birth = "1100.2.30"
		}
		fmt.Fprintf(b, "\t%d={ name=\"p%d\" birth=%s alive_data={ gold=%d } spouse=%d }\n", i, i, birth, i*100, i+1)
		if i%23 == 0 {
			fmt.Fprintf(b, "\t%d=none\n", i+100000)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func issuePaths(iss cw.Issues) []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code + " " + it.Path
	}
	return out
}

func TestDecode_ParallelMatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)
	src := manyPeople(500)
	s := worldSchema(t)

	seq, seqErr := decodeText(t, s, src, cw.DecodeOpt{Workers: 1})
	par, parErr := decodeText(t, s, src, cw.DecodeOpt{Workers: 8})

	if diff := cmp.Diff(seq, par); diff != "" {
		t.Fatalf("parallel decode differs (-seq +par):\n%s", diff)
	}
	seqIss, _ := cw.AsIssues(seqErr)
	parIss, _ := cw.AsIssues(parErr)
	require.Len(t, seqIss, 500/17)
	if diff := cmp.Diff(issuePaths(seqIss), issuePaths(parIss)); diff != "" {
		t.Fatalf("parallel issues differ (-seq +par):\n%s", diff)
	}
	assert.Len(t, par.Living, 500-500/17)
	assert.Equal(t, 1.0, *par.Living[1].Alive.Gold)
}

func renamedPeople(n int) string {
	b := &strings.Builder{}
	b.WriteString("date=1200.1.1\nliving={\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(b, "\t%d={ name=\"old%d\" birth=1100.1.1 name=\"p%d\" }\n", i, i, i)
	}
	b.WriteString("}\n")
	return b.String()
}

func TestDecode_ParallelWarningsForwardedInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)
	src := renamedPeople(400)
	s := worldSchema(t)

	run := func(workers int) ([]cw.Issue, int) {
		core, logs := observer.New(zapcore.WarnLevel)
		// no lock: the sink must only be called from the decoding goroutine
		var sunk []cw.Issue
		opt := cw.DecodeOpt{
			Workers:    workers,
			Strictness: cw.Strictness{OnDuplicateKey: cw.Warn},
			Logger:     zap.New(core),
			IssueSink:  func(it cw.Issue) { sunk = append(sunk, it) },
		}
		got, err := decodeText(t, s, src, opt)
		require.NoError(t, err)
		assert.Equal(t, "p7", got.Living[7].Name)
		return sunk, logs.Len()
	}
	seq, seqLogs := run(1)
	par, parLogs := run(8)

	require.Len(t, seq, 400)
	assert.Equal(t, "/living/1/name", seq[0].Path)
	assert.Equal(t, "/living/400/name", seq[399].Path)
	if diff := cmp.Diff(issuePaths(seq), issuePaths(par)); diff != "" {
		t.Fatalf("parallel warnings differ (-seq +par):\n%s", diff)
	}
	assert.Equal(t, 400, seqLogs)
	assert.Equal(t, 400, parLogs)
}

func TestDecode_ParallelFailFastMatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)
	src := manyPeople(500)
	s := worldSchema(t)

	seq, seqErr := decodeText(t, s, src, cw.DecodeOpt{Workers: 1, FailFast: true})
	par, parErr := decodeText(t, s, src, cw.DecodeOpt{Workers: 8, FailFast: true})

	seqIss, _ := cw.AsIssues(seqErr)
	parIss, _ := cw.AsIssues(parErr)
	require.Equal(t, []string{cw.CodeMalformedDate + " /living/17/birth"}, issuePaths(seqIss))
	if diff := cmp.Diff(issuePaths(seqIss), issuePaths(parIss)); diff != "" {
		t.Fatalf("parallel issues differ (-seq +par):\n%s", diff)
	}
	// entities before the first failure survive in both modes
	assert.Len(t, seq.Living, 16)
	if diff := cmp.Diff(seq, par); diff != "" {
		t.Fatalf("parallel decode differs (-seq +par):\n%s", diff)
	}
}

func TestDecode_ParallelKeepsEntriesBeforeNestedFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	b := &strings.Builder{}
	b.WriteString("date=1200.1.1\nliving={\n")
	for i := 1; i <= 200; i++ {
		mods := ""
		if i == 150 {
			mods = " modifier={ modifier=x days={ 1 } }"
		}
		fmt.Fprintf(b, "\t%d={ name=\"p%d\" birth=1100.1.1 alive_data={ gold=1%s } }\n", i, i, mods)
	}
	b.WriteString("}\n")
	s := worldSchema(t)

	seq, seqErr := decodeText(t, s, b.String(), cw.DecodeOpt{Workers: 1, FailFast: true})
	par, parErr := decodeText(t, s, b.String(), cw.DecodeOpt{Workers: 4, FailFast: true})

	seqIss, _ := cw.AsIssues(seqErr)
	parIss, _ := cw.AsIssues(parErr)
	require.Len(t, seqIss, 1)
	assert.Equal(t, "/living/150/alive_data/modifier/0/days", seqIss[0].Path)
	assert.Equal(t, issuePaths(seqIss), issuePaths(parIss))
	assert.Len(t, par.Living, 149)
	if diff := cmp.Diff(seq, par); diff != "" {
		t.Fatalf("parallel decode differs (-seq +par):\n%s", diff)
	}
}

func TestDecode_AliasIssuesUseFieldName(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		got, err := decodeText(t, personSchema(t), `name=a birth=1.1.1 nick={ x=1 }`, cw.DecodeOpt{})
		iss, ok := cw.AsIssues(err)
		require.True(t, ok)
		require.Len(t, iss, 1)
		assert.Equal(t, cw.CodeTypeMismatch, iss[0].Code)
		assert.Equal(t, "/nickname", iss[0].Path)
		assert.Nil(t, got.Nickname)
	})

	t.Run("duplicate", func(t *testing.T) {
		opt := cw.DecodeOpt{Strictness: cw.Strictness{OnDuplicateKey: cw.Error}}
		got, err := decodeText(t, personSchema(t), `name=a birth=1.1.1 nickname=x nick=y`, opt)
		iss, ok := cw.AsIssues(err)
		require.True(t, ok)
		require.Len(t, iss, 1)
		assert.Equal(t, cw.CodeDuplicateKey, iss[0].Code)
		assert.Equal(t, "/nickname", iss[0].Path)
		assert.Equal(t, "nick", iss[0].Params["key"], "input key kept in params")
		assert.Equal(t, 2, iss[0].Params["count"])
		assert.Equal(t, "y", *got.Nickname)
	})

	t.Run("duplicated element", func(t *testing.T) {
		type family struct {
			Former []uint64 `ck:"former_spouse"`
		}
		s := MustBind[family](Record("Family").
			Field("former_spouse", Uint()).Alias("former_spouses").Duplicated().Descriptor(), nil)
		got, err := decodeText(t, s, `former_spouse=1 former_spouses=x former_spouses=3`, cw.DecodeOpt{})
		iss, ok := cw.AsIssues(err)
		require.True(t, ok)
		require.Len(t, iss, 1)
		assert.Equal(t, "/former_spouse/1", iss[0].Path)
		assert.Equal(t, []uint64{1, 3}, got.Former)
	})
}

func TestDecode_ReencodedOverflow(t *testing.T) {
	type purse struct {
		Gold *float32 `ck:"gold"`
	}
	s := MustBind[purse](Record("Purse").Field("gold", Reencoded()).Optional().Descriptor(),
		cw.Transforms{}.With("Purse.gold", codec.Scale(100)))

	got, err := decodeText(t, s, `gold=1500`, cw.DecodeOpt{})
	require.NoError(t, err)
	assert.Equal(t, float32(15), *got.Gold)

	got, err = decodeText(t, s, `gold=1e50`, cw.DecodeOpt{})
	iss, ok := cw.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, cw.CodeTypeMismatch, iss[0].Code)
	assert.Equal(t, "/gold", iss[0].Path)
	assert.Nil(t, got.Gold)
}

func TestEncode_RoundTrip(t *testing.T) {
	s := worldSchema(t)
	ctx := context.Background()
	first, err := decodeText(t, s, worldSave, cw.DecodeOpt{})
	require.NoError(t, err)

	n, err := s.Encode(ctx, first)
	require.NoError(t, err)
	text := tree.Marshal(n)
	assert.Contains(t, string(text), "gold=1500")

	second, err := decodeText(t, s, string(text), cw.DecodeOpt{})
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("round trip mismatch (-first +second):\n%s", diff)
	}
}

func TestEncode_MissingRequiredPointer(t *testing.T) {
	type req struct {
		Name *string `ck:"name"`
	}
	s := MustBind[req](Record("Req").Field("name", String()).Required().Descriptor(), nil)
	_, err := s.Encode(context.Background(), req{})
	iss, ok := cw.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, cw.CodeMissingField, iss[0].Code)
}

func TestBind_RejectsMismatchedGoTypes(t *testing.T) {
	type wrongScalar struct {
		Name int `ck:"name"`
	}
	_, err := Bind[wrongScalar](Record("A").Field("name", String()).Required().Descriptor(), nil)
	require.Error(t, err)

	type notSlice struct {
		Spouse uint64 `ck:"spouse"`
	}
	_, err = Bind[notSlice](Record("B").Field("spouse", Uint()).Duplicated().Descriptor(), nil)
	require.Error(t, err)

	type missing struct{}
	_, err = Bind[missing](Record("C").Field("x", Int()).Optional().Descriptor(), nil)
	require.Error(t, err)

	type gold struct {
		Gold float64 `ck:"gold"`
	}
	_, err = Bind[gold](Record("D").Field("gold", Reencoded()).Optional().Descriptor(), nil)
	require.Error(t, err, "reencoded field without a registered transform")
}

func TestBind_PointerTarget(t *testing.T) {
	s := MustBind[*named](Record("Named").Field("name", String()).Required().Descriptor(), nil)
	v, err := decodeText(t, s, `name="x"`, cw.DecodeOpt{})
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "x", v.Name)
}
