package scpi

import "fmt"

// buildBuiltinTable returns the mandatory IEEE-488.2 common commands plus the
// SYSTem:ERRor and STATus subsystems, grounded on
// original_source/source/scpi_builtins.c's scpi_commands table. p is closed
// over so callbacks can reach the owning Parser's registers/queue/config
// without a second indirection layer.
func buildBuiltinTable(p *Parser) []*Command {
	return []*Command{
		{Levels: []string{"*CLS"}, Callback: p.builtinCLS},
		{Levels: []string{"*ESE"}, Params: []ParamType{ParamInt}, Callback: p.builtinESESet},
		{Levels: []string{"*ESE?"}, Callback: p.builtinESEQuery},
		{Levels: []string{"*ESR?"}, Callback: p.builtinESRQuery},
		{Levels: []string{"*IDN?"}, Callback: p.builtinIDNQuery},
		{Levels: []string{"*OPC"}, Callback: p.builtinOPC},
		{Levels: []string{"*OPC?"}, Callback: p.builtinOPCQuery},
		{Levels: []string{"*RST"}, Callback: p.builtinRST},
		{Levels: []string{"*SRE"}, Params: []ParamType{ParamInt}, Callback: p.builtinSRESet},
		{Levels: []string{"*SRE?"}, Callback: p.builtinSREQuery},
		{Levels: []string{"*STB?"}, Callback: p.builtinSTBQuery},
		{Levels: []string{"*TST?"}, Callback: p.builtinTSTQuery},
		{Levels: []string{"*WAI"}, Callback: p.builtinWAI},

		{Levels: []string{"SYSTem", "ERRor?"}, Callback: p.builtinErrNext},
		{Levels: []string{"SYSTem", "ERRor", "NEXT?"}, Callback: p.builtinErrNext},
		{Levels: []string{"SYSTem", "ERRor", "COUNt?"}, Callback: p.builtinErrCount},
		{Levels: []string{"SYSTem", "ERRor", "ALL?"}, Callback: p.builtinErrAll},
		{Levels: []string{"SYSTem", "ERRor", "CODE?"}, Callback: p.builtinErrCodeNext},
		{Levels: []string{"SYSTem", "ERRor", "CODE", "NEXT?"}, Callback: p.builtinErrCodeNext},
		{Levels: []string{"SYSTem", "ERRor", "CODE", "ALL?"}, Callback: p.builtinErrCodeAll},
		{Levels: []string{"SYSTem", "ERRor", "CLEar"}, Callback: p.builtinErrClear},
		{Levels: []string{"SYSTem", "VERSion?"}, Callback: p.builtinSystemVersion},

		{Levels: []string{"STATus", "OPERation?"}, Callback: p.builtinOperEvent},
		{Levels: []string{"STATus", "OPERation", "EVENt?"}, Callback: p.builtinOperEvent},
		{Levels: []string{"STATus", "OPERation", "CONDition?"}, Callback: p.builtinOperCondition},
		{Levels: []string{"STATus", "OPERation", "ENABle"}, Params: []ParamType{ParamInt}, Callback: p.builtinOperEnableSet},
		{Levels: []string{"STATus", "OPERation", "ENABle?"}, Callback: p.builtinOperEnableQuery},

		{Levels: []string{"STATus", "QUEStionable?"}, Callback: p.builtinQuesEvent},
		{Levels: []string{"STATus", "QUEStionable", "EVENt?"}, Callback: p.builtinQuesEvent},
		{Levels: []string{"STATus", "QUEStionable", "CONDition?"}, Callback: p.builtinQuesCondition},
		{Levels: []string{"STATus", "QUEStionable", "ENABle"}, Params: []ParamType{ParamInt}, Callback: p.builtinQuesEnableSet},
		{Levels: []string{"STATus", "QUEStionable", "ENABle?"}, Callback: p.builtinQuesEnableQuery},

		{Levels: []string{"STATus", "PRESet"}, Callback: p.builtinStatusPreset},
	}
}

func (p *Parser) builtinCLS(ctx *Context) {
	p.regs.SESR.SetRaw(0)
	p.regs.OPER.SetRaw(0)
	p.regs.QUES.SetRaw(0)
	p.errs.Clear()
	p.propagate()
	if p.cfg.Hooks.CLS != nil {
		p.cfg.Hooks.CLS()
	}
}

func (p *Parser) builtinESESet(ctx *Context) {
	p.regs.ESE = uint8(ctx.Int(0))
	p.propagate()
}

func (p *Parser) builtinESEQuery(ctx *Context) {
	ctx.Emitf("%d", p.regs.ESE)
}

func (p *Parser) builtinESRQuery(ctx *Context) {
	ctx.Emitf("%d", p.regs.SESR.Raw())
	p.regs.SESR.SetRaw(0)
	p.propagate()
}

func (p *Parser) builtinIDNQuery(ctx *Context) {
	if p.cfg.Identify != nil {
		ctx.Emit(p.cfg.Identify())
		return
	}
	ctx.Emit("unknown,unknown,0,0")
}

func (p *Parser) builtinOPC(ctx *Context) {
	p.regs.SESR.Set(SesrOpComplete)
	p.propagate()
}

func (p *Parser) builtinOPCQuery(ctx *Context) {
	ctx.Emit("1")
}

func (p *Parser) builtinRST(ctx *Context) {
	if p.cfg.Hooks.RST != nil {
		p.cfg.Hooks.RST()
	}
}

func (p *Parser) builtinSRESet(ctx *Context) {
	p.regs.SRE = uint8(ctx.Int(0))
	p.propagate()
}

func (p *Parser) builtinSREQuery(ctx *Context) {
	ctx.Emitf("%d", p.regs.SRE)
}

func (p *Parser) builtinSTBQuery(ctx *Context) {
	p.propagate()
	ctx.Emitf("%d", p.regs.STB.Raw())
}

func (p *Parser) builtinTSTQuery(ctx *Context) {
	if p.cfg.Hooks.TST != nil {
		p.cfg.Hooks.TST()
	}
	ctx.Emit("0")
}

func (p *Parser) builtinWAI(ctx *Context) {}

func (p *Parser) builtinErrNext(ctx *Context) {
	text, _ := p.errs.Pop()
	ctx.Emit(text)
	p.propagate()
}

func (p *Parser) builtinErrCount(ctx *Context) {
	ctx.Emitf("%d", p.errs.Count())
}

func (p *Parser) builtinErrAll(ctx *Context) {
	first := true
	for p.errs.Count() > 0 {
		text, _ := p.errs.Pop()
		if !first {
			ctx.EmitRaw(",")
		}
		ctx.EmitRaw(text)
		first = false
	}
	if first {
		ctx.EmitRaw("0,\"No error\"")
	}
	ctx.Emit("")
	p.propagate()
}

func (p *Parser) builtinErrCodeNext(ctx *Context) {
	_, code := p.errs.Pop()
	ctx.Emitf("%d", code)
	p.propagate()
}

func (p *Parser) builtinErrCodeAll(ctx *Context) {
	first := true
	for p.errs.Count() > 0 {
		_, code := p.errs.Pop()
		if !first {
			ctx.EmitRaw(",")
		}
		ctx.EmitRaw(fmt.Sprintf("%d", code))
		first = false
	}
	if first {
		ctx.EmitRaw("0")
	}
	ctx.Emit("")
	p.propagate()
}

func (p *Parser) builtinErrClear(ctx *Context) {
	p.errs.Clear()
	p.propagate()
}

func (p *Parser) builtinSystemVersion(ctx *Context) {
	ctx.Emit("1999.0")
}

func (p *Parser) builtinOperEvent(ctx *Context) {
	ctx.Emitf("%d", p.regs.OPER.Raw())
	p.regs.OPER.SetRaw(0)
	p.propagate()
}

func (p *Parser) builtinOperCondition(ctx *Context) {
	ctx.Emitf("%d", p.regs.OPER.Raw())
}

func (p *Parser) builtinOperEnableSet(ctx *Context) {
	p.regs.OPEREn.SetRaw(uint16(ctx.Int(0)))
	p.propagate()
}

func (p *Parser) builtinOperEnableQuery(ctx *Context) {
	ctx.Emitf("%d", p.regs.OPEREn.Raw())
}

func (p *Parser) builtinQuesEvent(ctx *Context) {
	ctx.Emitf("%d", p.regs.QUES.Raw())
	p.regs.QUES.SetRaw(0)
	p.propagate()
}

func (p *Parser) builtinQuesCondition(ctx *Context) {
	ctx.Emitf("%d", p.regs.QUES.Raw())
}

func (p *Parser) builtinQuesEnableSet(ctx *Context) {
	p.regs.QUESEn.SetRaw(uint16(ctx.Int(0)))
	p.propagate()
}

func (p *Parser) builtinQuesEnableQuery(ctx *Context) {
	ctx.Emitf("%d", p.regs.QUESEn.Raw())
}

func (p *Parser) builtinStatusPreset(ctx *Context) {
	p.regs.OPEREn.SetRaw(0)
	p.regs.QUESEn.SetRaw(0)
	p.propagate()
}
