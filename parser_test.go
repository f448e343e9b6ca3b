package scpi

import (
	"strings"
	"testing"
)

func newTestParser(cmds []*Command, out *strings.Builder) *Parser {
	cfg := &Config{
		Commands: cmds,
		Identify: func() string { return "TEST,UNIT,0,1.0" },
		Emit:     func(b []byte) { out.Write(b) },
		EOL:      "\n",
	}
	return NewParser(cfg)
}

func feed(p *Parser, s string) {
	p.AcceptBuffer([]byte(s))
}

func TestParserDispatchesNoArgQuery(t *testing.T) {
	var out strings.Builder
	called := false
	cmds := []*Command{
		{Levels: []string{"TEST?"}, Callback: func(ctx *Context) {
			called = true
			ctx.Emit("OK")
		}},
	}
	p := newTestParser(cmds, &out)
	feed(p, "TEST?\n")

	if !called {
		t.Fatal("callback was not invoked")
	}
	if out.String() != "OK\n" {
		t.Errorf("output = %q, want %q", out.String(), "OK\n")
	}
	if p.Phase() != PhaseCommand {
		t.Errorf("phase after newline = %v, want PhaseCommand", p.Phase())
	}
}

func TestParserShortAndLongFormHeaders(t *testing.T) {
	var out strings.Builder
	hits := 0
	cmds := []*Command{
		{Levels: []string{"MEASure", "VOLTage?"}, Callback: func(ctx *Context) { hits++ }},
	}
	p := newTestParser(cmds, &out)
	feed(p, "MEAS:VOLT?\n")
	feed(p, "MEASURE:VOLTAGE?\n")
	feed(p, "meas:volt?\n")

	if hits != 3 {
		t.Errorf("hits = %d, want 3", hits)
	}
}

func TestParserIntArgument(t *testing.T) {
	var out strings.Builder
	var got int32
	cmds := []*Command{
		{Levels: []string{"SOURce", "VOLTage"}, Params: []ParamType{ParamInt}, Callback: func(ctx *Context) {
			got = ctx.Int(0)
		}},
	}
	p := newTestParser(cmds, &out)
	feed(p, "SOUR:VOLT 5k\n")

	if got != 5000 {
		t.Errorf("arg = %d, want 5000", got)
	}
}

func TestParserSemicolonPreservesPath(t *testing.T) {
	var out strings.Builder
	var volt, curr int32
	cmds := []*Command{
		{Levels: []string{"SOURce", "VOLTage"}, Params: []ParamType{ParamInt}, Callback: func(ctx *Context) {
			volt = ctx.Int(0)
		}},
		{Levels: []string{"SOURce", "CURRent"}, Params: []ParamType{ParamInt}, Callback: func(ctx *Context) {
			curr = ctx.Int(0)
		}},
	}
	p := newTestParser(cmds, &out)
	feed(p, "SOURce:VOLTage 1;CURRent 2\n")

	if volt != 1 || curr != 2 {
		t.Errorf("volt=%d curr=%d, want 1,2", volt, curr)
	}
}

func TestParserStringArgumentWithEscape(t *testing.T) {
	var out strings.Builder
	var got string
	cmds := []*Command{
		{Levels: []string{"SYSTem", "COMMent"}, Params: []ParamType{ParamString}, Callback: func(ctx *Context) {
			got = ctx.String(0)
		}},
	}
	p := newTestParser(cmds, &out)
	feed(p, `SYST:COMM "quote \" inside"` + "\n")

	want := `quote " inside`
	if got != want {
		t.Errorf("string arg = %q, want %q", got, want)
	}
}

func TestParserBlobArgumentChunked(t *testing.T) {
	var out strings.Builder
	var gotLen uint32
	var chunks [][]byte
	cmds := []*Command{
		{Levels: []string{"MEMory", "DATA"}, Params: []ParamType{ParamBlob}, BlobChunk: 4, Callback: func(ctx *Context) {
			gotLen = ctx.BlobLen(0)
		}, BlobCallback: func(ctx *Context, chunk []byte) {
			cp := make([]byte, len(chunk))
			copy(cp, chunk)
			chunks = append(chunks, cp)
		}},
	}
	p := newTestParser(cmds, &out)
	feed(p, "MEM:DATA #16abcdef\n")

	if gotLen != 6 {
		t.Fatalf("blob len = %d, want 6", gotLen)
	}
	var all []byte
	for _, c := range chunks {
		all = append(all, c...)
	}
	if string(all) != "abcdef" {
		t.Errorf("reassembled blob = %q, want %q", all, "abcdef")
	}
}

func TestParserUndefinedHeaderRaisesError(t *testing.T) {
	var out strings.Builder
	p := newTestParser(nil, &out)
	feed(p, "BOGUS:HEADer\n")

	if p.Errors().Count() != 1 {
		t.Fatalf("error queue count = %d, want 1", p.Errors().Count())
	}
	_, code := p.Errors().Pop()
	if code != -113 {
		t.Errorf("error code = %d, want -113", code)
	}
}

// An internal colon must not cut the header short: the error reported once
// the line ends names the complete path, not just the first token that
// fails to resolve.
func TestParserUndefinedHeaderReportsFullPath(t *testing.T) {
	var out strings.Builder
	p := newTestParser(nil, &out)
	feed(p, "FOO:BAR:BAZ\n")

	if p.Errors().Count() != 1 {
		t.Fatalf("error queue count = %d, want 1", p.Errors().Count())
	}
	text, code := p.Errors().Pop()
	if code != -113 {
		t.Errorf("error code = %d, want -113", code)
	}
	want := `-113,"Undefined header; FOO:BAR:BAZ"`
	if text != want {
		t.Errorf("error text = %q, want %q", text, want)
	}
}

func TestParserDiscardLineIgnoresUntilNewline(t *testing.T) {
	var out strings.Builder
	called := false
	cmds := []*Command{
		{Levels: []string{"TEST?"}, Callback: func(ctx *Context) { called = true }},
	}
	p := newTestParser(cmds, &out)
	feed(p, "BOGUS garbage stuff")
	if p.Phase() != PhaseDiscardLine {
		t.Fatalf("phase = %v, want PhaseDiscardLine", p.Phase())
	}
	feed(p, "\nTEST?\n")

	if !called {
		t.Error("callback after discarded line was never invoked")
	}
}

func TestParserMissingParameterError(t *testing.T) {
	var out strings.Builder
	cmds := []*Command{
		{Levels: []string{"SOURce", "VOLTage"}, Params: []ParamType{ParamInt}, Callback: func(ctx *Context) {}},
	}
	p := newTestParser(cmds, &out)
	feed(p, "SOUR:VOLT\n")

	if p.Errors().Count() != 1 {
		t.Fatalf("error queue count = %d, want 1", p.Errors().Count())
	}
	_, code := p.Errors().Pop()
	if code != -109 {
		t.Errorf("error code = %d, want -109", code)
	}
}

func TestParserHeaderTokenTooLong(t *testing.T) {
	var out strings.Builder
	p := newTestParser(nil, &out)
	feed(p, strings.Repeat("A", 17)+"\n")

	if p.Errors().Count() != 1 {
		t.Fatalf("error queue count = %d, want 1", p.Errors().Count())
	}
	_, code := p.Errors().Pop()
	if code != -112 {
		t.Errorf("error code = %d, want -112", code)
	}
}

func TestParserEmptyLineIsSilentlyAccepted(t *testing.T) {
	var out strings.Builder
	p := newTestParser(nil, &out)
	feed(p, "   \n")

	if p.Errors().Count() != 0 {
		t.Errorf("error queue count = %d, want 0 for a blank line", p.Errors().Count())
	}
}
