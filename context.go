package scpi

import "fmt"

// Context is passed to a CommandFunc/BlobChunkFunc: the Go equivalent of the
// C callback's "const SCPI_argval_t *args" parameter, plus the ambient
// ability to emit a response or raise an error that the C callbacks reach
// via scpi_send_string/scpi_add_error.
type Context struct {
	p    *Parser
	Args []ArgValue
}

// Int returns the i'th argument as a signed 32-bit int.
func (c *Context) Int(i int) int32 { return c.Args[i].Int() }

// Float returns the i'th argument as a 32-bit float.
func (c *Context) Float(i int) float32 { return c.Args[i].Float() }

// Bool returns the i'th argument as a bool.
func (c *Context) Bool(i int) bool { return c.Args[i].Bool() }

// Chardata/String both return the i'th argument's text — distinguished only
// by which ParamType the command declared for readability at call sites.
func (c *Context) Chardata(i int) string { return c.Args[i].String() }
func (c *Context) String(i int) string   { return c.Args[i].String() }

// BlobLen returns the i'th argument's declared blob length.
func (c *Context) BlobLen(i int) uint32 { return c.Args[i].BlobLen() }

// Emit writes s followed by the configured EOL.
func (c *Context) Emit(s string) { c.p.Emit(s) }

// Emitf formats and writes, followed by the configured EOL.
func (c *Context) Emitf(format string, args ...interface{}) {
	c.p.Emit(fmt.Sprintf(format, args...))
}

// EmitRaw writes s with no EOL appended.
func (c *Context) EmitRaw(s string) { c.p.EmitRaw(s) }

// RaiseError queues an error exactly as if the controller had sent
// malformed input — see Parser.RaiseError.
func (c *Context) RaiseError(code int32, extra string) { c.p.RaiseError(code, extra) }

// Propagate recomputes STB/RQS. Builtins that mutate a register directly
// (*ESE, STATus:...:ENABle, ...) must call this after writing.
func (c *Context) Propagate() { c.p.propagate() }

// Regs exposes the live status registers for read/write access from
// builtins and user commands.
func (c *Context) Regs() *StatusRegisters { return c.p.regs }

// Errors exposes the live error queue.
func (c *Context) Errors() *ErrorQueue { return c.p.errs }

// Parser returns the owning Parser, for user commands that need direct
// access beyond what Context exposes (e.g. DiscardBlob).
func (c *Context) Parser() *Parser { return c.p }
