package scpi

import (
	"github.com/sirupsen/logrus"
)

// Phase is one of the parser's 9 states: header accumulation, the four
// argument sub-phases (plain, string, blob preamble, blob body/discard),
// the two trailing-whitespace-only phases, and the error-recovery phase.
type Phase int

const (
	PhaseCommand Phase = iota
	PhaseArg
	PhaseArgString
	PhaseArgBlobPreamble
	PhaseArgBlobBody
	PhaseArgBlobDiscard
	PhaseTrailingWhite
	PhaseTrailingWhiteNoCB
	PhaseDiscardLine
)

func (ph Phase) String() string {
	switch ph {
	case PhaseCommand:
		return "COMMAND"
	case PhaseArg:
		return "ARG"
	case PhaseArgString:
		return "ARG_STRING"
	case PhaseArgBlobPreamble:
		return "ARG_BLOB_PREAMBLE"
	case PhaseArgBlobBody:
		return "ARG_BLOB_BODY"
	case PhaseArgBlobDiscard:
		return "ARG_BLOB_DISCARD"
	case PhaseTrailingWhite:
		return "TRAILING_WHITE"
	case PhaseTrailingWhiteNoCB:
		return "TRAILING_WHITE_NOCB"
	case PhaseDiscardLine:
		return "DISCARD_LINE"
	default:
		return "?"
	}
}

const (
	maxHeaderToken = 16
	maxLevels      = 4
	maxCharbuf     = 256
	maxStringLen   = 64
	maxChardataLen = 64
)

// Parser is the incremental byte-driven state machine, command dictionary,
// argument converter, and status-register engine. It is built once via
// NewParser and is not safe for concurrent use — it is a single-threaded,
// cooperative singleton; callers feeding bytes from multiple goroutines
// must serialize externally.
type Parser struct {
	cfg  *Config
	regs *StatusRegisters
	errs *ErrorQueue
	lg   *logrus.Logger

	userTable    []*Command
	builtinTable []*Command

	phase      Phase
	charbuf    [maxCharbuf]byte
	charlen    int
	levels     [maxLevels]string
	levelCount int
	kept       bool
	matched    *Command
	argIndex   int
	args       [maxLevels]ArgValue

	argValueReady bool

	quote  byte
	escape bool

	blobReadingD   bool
	blobDigitsWant int
	blobDigitsGot  int
	blobLenAccum   uint32
	blobLen        uint32
	blobGot        uint32
	blobChunkBuf   []byte
}

// NewParser constructs the process-wide parser state described by cfg. It
// should be called exactly once per controller endpoint: one instantiated
// state record, not fragmented globals.
func NewParser(cfg *Config) *Parser {
	p := &Parser{
		cfg:       cfg,
		regs:      NewStatusRegisters(),
		errs:      NewErrorQueue(),
		userTable: cfg.Commands,
	}
	if cfg.Logger != nil {
		p.lg = cfg.Logger
	} else {
		p.lg = _lg
	}
	p.builtinTable = buildBuiltinTable(p)
	return p
}

// Registers exposes the live status registers.
func (p *Parser) Registers() *StatusRegisters { return p.regs }

// Errors exposes the live error queue.
func (p *Parser) Errors() *ErrorQueue { return p.errs }

// Phase reports the parser's current internal state, chiefly for tests and
// diagnostics.
func (p *Parser) Phase() Phase { return p.phase }

// Emit writes s followed by the configured EOL through Config.Emit.
func (p *Parser) Emit(s string) {
	if p.cfg.Emit == nil {
		return
	}
	p.cfg.Emit(append([]byte(s), p.cfg.eol()...))
}

// EmitRaw writes s with no EOL appended.
func (p *Parser) EmitRaw(s string) {
	if p.cfg.Emit == nil {
		return
	}
	p.cfg.Emit([]byte(s))
}

// Accept processes one byte to completion before returning; it never
// suspends or blocks internally.
func (p *Parser) Accept(b byte) {
	switch p.phase {
	case PhaseCommand:
		p.handleCommand(b)
	case PhaseArg:
		p.handleArg(b)
	case PhaseArgString:
		p.handleArgString(b)
	case PhaseArgBlobPreamble:
		p.handleBlobPreamble(b)
	case PhaseArgBlobBody:
		p.handleBlobBody(b)
	case PhaseArgBlobDiscard:
		p.handleBlobDiscard(b)
	case PhaseTrailingWhite:
		p.handleTrailingWhite(b, false)
	case PhaseTrailingWhiteNoCB:
		p.handleTrailingWhite(b, true)
	case PhaseDiscardLine:
		p.handleDiscardLine(b)
	}
}

// AcceptBuffer is a convenience wrapper over Accept for a full byte slice.
func (p *Parser) AcceptBuffer(buf []byte) {
	for _, b := range buf {
		p.Accept(b)
	}
}

// DiscardBlob is the external cancellation entry point: if the parser is
// mid-blob-body, the remaining declared bytes are consumed without invoking
// the chunk callback.
func (p *Parser) DiscardBlob() {
	if p.phase == PhaseArgBlobBody {
		p.phase = PhaseArgBlobDiscard
	}
}

// ---- path / reset helpers ----

func (p *Parser) fullReset() {
	p.levelCount = 0
	p.kept = false
	p.resetForNextCommand()
}

func (p *Parser) resetForNextCommand() {
	p.phase = PhaseCommand
	p.charlen = 0
	p.matched = nil
	p.argIndex = 0
	p.argValueReady = false
	p.escape = false
}

// keepReset drops the last resolved level (reset path to depth−1) and marks
// the path "kept" — a semicolon continues within the same subtree rather
// than resetting to the root.
func (p *Parser) keepReset() {
	if p.levelCount > 0 {
		p.levelCount--
	}
	p.kept = true
	p.resetForNextCommand()
}

func (p *Parser) pathTokens() []string {
	return p.levels[:p.levelCount]
}

func (p *Parser) pushLevel(tok string) {
	if p.levelCount < maxLevels {
		p.levels[p.levelCount] = tok
		p.levelCount++
	}
}

// finalizeHeaderToken appends the in-progress charbuf token (if any) as the
// final resolved level.
func (p *Parser) finalizeHeaderToken() {
	if p.charlen > 0 {
		p.pushLevel(string(p.charbuf[:p.charlen]))
		p.charlen = 0
	}
}

func (p *Parser) currentHeaderString() string {
	return joinTokens(p.pathTokens())
}

// ---- error / status plumbing ----

// RaiseError queues a fully-resolved error, updates the matching SESR bit,
// and propagates status.
func (p *Parser) RaiseError(code int32, extra string) {
	var userTable []UserError
	if p.cfg != nil {
		userTable = p.cfg.UserErrors
	}
	resolved, msg := resolveErrorCode(code, userTable)
	p.errs.Push(resolved, msg, extra)

	if bit := sesrBitForCode(resolved); bit != 0 {
		p.regs.SESR.Set(bit)
	}

	if p.lg != nil {
		p.lg.Debugf("scpi: error queued %d,%q extra=%q", resolved, msg, extra)
	}

	if p.cfg != nil && p.cfg.Hooks.ErrorAdded != nil {
		p.cfg.Hooks.ErrorAdded(resolved, msg)
	}

	p.propagate()
}

func (p *Parser) propagate() {
	rose := p.regs.propagate(p.errs.Count())
	if rose {
		if p.lg != nil {
			p.lg.Debug("scpi: RQS 0->1, firing service request")
		}
		if p.cfg != nil && p.cfg.Hooks.ServiceRequest != nil {
			p.cfg.Hooks.ServiceRequest()
		}
	}
}

func (p *Parser) invokeCallback(cmd *Command, args []ArgValue) {
	if cmd == nil || cmd.Callback == nil {
		return
	}
	header := cmd.canonicalHeader()
	if p.lg != nil {
		p.lg.Debugf("scpi: dispatch %s", header)
	}
	if p.cfg != nil && p.cfg.Hooks.CommandDispatched != nil {
		p.cfg.Hooks.CommandDispatched(header)
	}
	cmd.Callback(&Context{p: p, Args: args})
}

// ---- COMMAND phase ----

func (p *Parser) appendHeaderChar(b byte) {
	if p.charlen >= maxHeaderToken {
		p.RaiseError(-112, "")
		p.enterDiscardLine()
		return
	}
	p.charbuf[p.charlen] = b
	p.charlen++
}

func (p *Parser) handleCommand(b byte) {
	if p.charlen == 0 && isWhite(b) {
		return
	}
	if isIdentChar(b) {
		p.appendHeaderChar(b)
		return
	}
	if isWhite(b) {
		p.onHeaderSpace()
		return
	}
	switch b {
	case ':':
		p.onHeaderColon()
	case '\n':
		p.onHeaderNewline()
	case ';':
		p.onHeaderSemicolon()
	default:
		p.RaiseError(-101, "")
		p.enterDiscardLine()
	}
}

func (p *Parser) onHeaderColon() {
	if p.charlen == 0 {
		if p.levelCount == 0 || p.kept {
			p.fullReset()
			return
		}
		p.RaiseError(-102, "")
		p.enterDiscardLine()
		return
	}

	// Push the level and keep accumulating regardless of whether it could
	// possibly resolve: an undefined header is reported in full once the
	// line terminates and the exact lookup runs, not piecemeal per colon.
	token := string(p.charbuf[:p.charlen])
	p.pushLevel(token)
	p.charlen = 0
}

func (p *Parser) onHeaderSpace() {
	p.finalizeHeaderToken()
	p.resolveHeaderAndDispatch()
}

func (p *Parser) resolveHeaderAndDispatch() {
	cmd := lookup(p.userTable, p.builtinTable, p.pathTokens(), true)
	if cmd == nil {
		p.RaiseError(-113, p.currentHeaderString())
		p.enterDiscardLine()
		return
	}
	p.matched = cmd
	if len(cmd.Params) == 0 {
		p.phase = PhaseTrailingWhite
		return
	}
	p.phase = PhaseArg
	p.argIndex = 0
	p.charlen = 0
}

func (p *Parser) onHeaderSemicolon() {
	if p.levelCount == 0 && p.charlen == 0 {
		p.fullReset()
		return
	}
	p.finalizeHeaderToken()
	cmd := lookup(p.userTable, p.builtinTable, p.pathTokens(), true)
	if cmd == nil {
		p.RaiseError(-113, p.currentHeaderString())
		p.enterDiscardLine()
		return
	}
	if len(cmd.Params) != 0 {
		p.RaiseError(-109, "")
		p.enterDiscardLine()
		return
	}
	p.invokeCallback(cmd, nil)
	p.keepReset()
}

func (p *Parser) onHeaderNewline() {
	if p.levelCount == 0 && p.charlen == 0 {
		p.fullReset()
		return
	}
	p.finalizeHeaderToken()
	cmd := lookup(p.userTable, p.builtinTable, p.pathTokens(), true)
	if cmd == nil {
		p.RaiseError(-113, p.currentHeaderString())
		p.enterDiscardLine()
		return
	}
	if len(cmd.Params) != 0 {
		p.RaiseError(-109, "")
		p.enterDiscardLine()
		return
	}
	p.invokeCallback(cmd, nil)
	p.fullReset()
}

// ---- ARG phase ----

func (p *Parser) currentExpectedType() ParamType {
	if p.matched == nil || p.argIndex >= len(p.matched.Params) {
		return ParamNone
	}
	return p.matched.Params[p.argIndex]
}

func (p *Parser) appendChar(b byte) bool {
	limit := maxCharbuf
	var overflowCode int32 = -223
	switch p.currentExpectedType() {
	case ParamString:
		limit, overflowCode = maxStringLen, -150
	case ParamChardata:
		limit, overflowCode = maxChardataLen, -144
	}
	if p.charlen >= limit {
		p.RaiseError(overflowCode, "")
		p.enterDiscardLine()
		return false
	}
	p.charbuf[p.charlen] = b
	p.charlen++
	return true
}

// finishArgument converts the accumulated charbuf (trimmed of surrounding
// whitespace) per the expected type and stores it into args[argIndex]. It
// returns false (and has already raised an error/entered DISCARD_LINE) on
// conversion failure.
func (p *Parser) finishArgument() bool {
	if p.argValueReady {
		p.argValueReady = false
		return true
	}

	tok := trimWhite(p.charbuf[:p.charlen])
	typ := p.currentExpectedType()

	var val ArgValue
	var code int32
	var extra string

	switch typ {
	case ParamInt:
		v, c, e := convertInt(tok)
		val, code, extra = ArgValue{typ: ParamInt, i: v}, c, e
	case ParamFloat:
		v, c, e := convertFloat(tok)
		val, code, extra = ArgValue{typ: ParamFloat, f: v}, c, e
	case ParamBool:
		v, c, e := convertBool(tok)
		val, code, extra = ArgValue{typ: ParamBool, b: v}, c, e
	case ParamChardata:
		v, c, e := convertChardata(tok)
		val, code, extra = ArgValue{typ: ParamChardata, s: v}, c, e
	case ParamString:
		// Reached only if a STRING argument was never quoted (e.g. a bare
		// token where a quote was expected) — treat as invalid string data.
		code, extra = -151, tok
	default:
		code = 0
	}

	if code != 0 {
		p.RaiseError(code, extra)
		p.enterDiscardLine()
		return false
	}
	p.args[p.argIndex] = val
	return true
}

func trimWhite(buf []byte) string {
	start, end := 0, len(buf)
	for start < end && isWhite(buf[start]) {
		start++
	}
	for end > start && isWhite(buf[end-1]) {
		end--
	}
	return string(buf[start:end])
}

func (p *Parser) handleArg(b byte) {
	switch b {
	case ',':
		if !p.finishArgument() {
			return
		}
		p.argIndex++
		if p.argIndex >= len(p.matched.Params) {
			p.RaiseError(-108, "")
			p.enterDiscardLine()
			return
		}
		p.charlen = 0
		return
	case ';':
		if !p.finishArgument() {
			return
		}
		p.dispatchAfterArgs(true)
		return
	case '\n':
		if !p.finishArgument() {
			return
		}
		p.dispatchAfterArgs(false)
		return
	}

	if p.argValueReady {
		if isWhite(b) {
			return
		}
		p.RaiseError(-103, "")
		p.enterDiscardLine()
		return
	}

	expected := p.currentExpectedType()
	if expected == ParamBlob && p.charlen == 0 && b == '#' {
		p.beginBlobPreamble()
		return
	}
	if expected == ParamString && p.charlen == 0 && (b == '\'' || b == '"') {
		p.phase = PhaseArgString
		p.quote = b
		p.escape = false
		return
	}
	if isWhite(b) && p.charlen == 0 {
		return
	}
	p.appendChar(b)
}

func (p *Parser) dispatchAfterArgs(semicolon bool) {
	if p.argIndex != len(p.matched.Params)-1 {
		p.RaiseError(-109, "")
		p.enterDiscardLine()
		return
	}
	cmd := p.matched
	p.invokeCallback(cmd, p.args[:len(cmd.Params)])
	if semicolon {
		p.keepReset()
	} else {
		p.fullReset()
	}
}

// ---- ARG_STRING phase ----

func (p *Parser) handleArgString(b byte) {
	if p.escape {
		p.escape = false
		if b != p.quote {
			p.appendChar('\\')
		}
		p.appendChar(b)
		return
	}
	switch {
	case b == '\\':
		p.escape = true
	case b == p.quote:
		p.finishStringArgument()
	case b == '\n':
		p.RaiseError(-151, "")
		p.enterDiscardLine()
	default:
		p.appendChar(b)
	}
}

func (p *Parser) finishStringArgument() {
	tok := string(p.charbuf[:p.charlen])
	if len(tok) > maxStringLen {
		p.RaiseError(-150, "")
		p.enterDiscardLine()
		return
	}
	p.args[p.argIndex] = ArgValue{typ: ParamString, s: tok}
	p.argValueReady = true
	p.charlen = 0
	p.phase = PhaseArg
}

// ---- BLOB phases ----

func (p *Parser) beginBlobPreamble() {
	p.phase = PhaseArgBlobPreamble
	p.blobReadingD = true
	p.blobDigitsWant = 0
	p.blobDigitsGot = 0
	p.blobLenAccum = 0
}

func (p *Parser) handleBlobPreamble(b byte) {
	if p.blobReadingD {
		if b < '1' || b > '9' {
			p.RaiseError(-161, "")
			p.enterDiscardLine()
			return
		}
		p.blobDigitsWant = int(b - '0')
		p.blobReadingD = false
		return
	}
	if !isDigit(b) {
		p.RaiseError(-161, "")
		p.enterDiscardLine()
		return
	}
	p.blobLenAccum = p.blobLenAccum*10 + uint32(b-'0')
	p.blobDigitsGot++
	if p.blobDigitsGot == p.blobDigitsWant {
		p.blobLen = p.blobLenAccum
		p.blobGot = 0
		p.beginBlobBody()
	}
}

func (p *Parser) beginBlobBody() {
	p.args[p.argIndex] = ArgValue{typ: ParamBlob, blobLen: p.blobLen}
	p.invokeCallback(p.matched, p.args[:p.argIndex+1])

	if p.blobLen == 0 {
		p.phase = PhaseTrailingWhiteNoCB
		return
	}
	p.phase = PhaseArgBlobBody
	chunk := p.matched.BlobChunk
	if chunk <= 0 {
		chunk = int(p.blobLen)
	}
	if cap(p.blobChunkBuf) < chunk {
		p.blobChunkBuf = make([]byte, 0, chunk)
	} else {
		p.blobChunkBuf = p.blobChunkBuf[:0]
	}
}

func (p *Parser) blobChunkSize() int {
	chunk := p.matched.BlobChunk
	if chunk <= 0 {
		chunk = int(p.blobLen)
	}
	return chunk
}

func (p *Parser) handleBlobBody(b byte) {
	p.blobChunkBuf = append(p.blobChunkBuf, b)
	p.blobGot++

	chunk := p.blobChunkSize()
	if len(p.blobChunkBuf) == chunk || p.blobGot == p.blobLen {
		if p.matched.BlobCallback != nil {
			out := make([]byte, len(p.blobChunkBuf))
			copy(out, p.blobChunkBuf)
			p.matched.BlobCallback(&Context{p: p, Args: p.args[:p.argIndex+1]}, out)
		}
		p.blobChunkBuf = p.blobChunkBuf[:0]
	}
	if p.blobGot == p.blobLen {
		p.phase = PhaseTrailingWhiteNoCB
	}
}

func (p *Parser) handleBlobDiscard(b byte) {
	p.blobGot++
	if p.blobGot == p.blobLen {
		p.phase = PhaseDiscardLine
	}
}

// ---- TRAILING_WHITE / TRAILING_WHITE_NOCB phases ----

func (p *Parser) handleTrailingWhite(b byte, suppressCallback bool) {
	switch b {
	case ';':
		if !suppressCallback {
			p.invokeCallback(p.matched, nil)
		}
		p.keepReset()
	case '\n':
		if !suppressCallback {
			p.invokeCallback(p.matched, nil)
		}
		p.fullReset()
	default:
		if isWhite(b) {
			return
		}
		p.RaiseError(-101, "")
		p.enterDiscardLine()
	}
}

// ---- DISCARD_LINE phase ----

func (p *Parser) enterDiscardLine() {
	p.phase = PhaseDiscardLine
}

func (p *Parser) handleDiscardLine(b byte) {
	if b == '\n' {
		p.fullReset()
	}
}
