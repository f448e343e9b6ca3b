package scpi

// Status register bit positions, fixed by IEEE-488.2. Each register is
// modeled as a raw integer plus named-bit accessors — Go has no bitfield
// unions, so a raw value with named-bit helpers is the natural stand-in.

// QUESTionable register bits.
const (
	QuesVolt uint16 = 1 << iota
	QuesCurr
	QuesTime
	QuesPower
	QuesTemp
	QuesFreq
	QuesPhase
	QuesModul
	QuesCalib
	QuesBit9
	QuesBit10
	QuesBit11
	QuesBit12
	QuesInstrSum
	QuesCommandWarning
	_ // reserved
)

// OPERation register bits.
const (
	OperCalib uint16 = 1 << iota
	OperSetting
	OperRanging
	OperSweep
	OperMeas
	OperWaitTrig
	OperWaitArm
	OperCorrecting
	OperBit8
	OperBit9
	OperBit10
	OperBit11
	OperBit12
	OperInstrSum
	OperProgRun
	_ // reserved
)

// Standard Event Status register bits.
const (
	SesrOpComplete uint8 = 1 << iota
	SesrReqControl
	SesrQueryError
	SesrDevError
	SesrExeError
	SesrCmdError
	SesrUserRequest
	SesrPowerOn
)

// Status byte bits — positions fixed by IEEE-488.2.
const (
	StbBit0 uint8 = 1 << iota
	StbBit1
	StbErrQ
	StbQues
	StbMav
	StbSesr
	StbRqs
	StbOper
)

// bitReg16 is a raw uint16 plus bit accessors, shared by QUES and OPER.
type bitReg16 struct{ raw uint16 }

func (r *bitReg16) Raw() uint16      { return r.raw }
func (r *bitReg16) SetRaw(v uint16)  { r.raw = v }
func (r *bitReg16) Set(bit uint16)   { r.raw |= bit }
func (r *bitReg16) Clear(bit uint16) { r.raw &^= bit }
func (r *bitReg16) Has(bit uint16) bool {
	return r.raw&bit != 0
}

// bitReg8 is a raw uint8 plus bit accessors, shared by SESR and STB.
type bitReg8 struct{ raw uint8 }

func (r *bitReg8) Raw() uint8      { return r.raw }
func (r *bitReg8) SetRaw(v uint8)  { r.raw = v }
func (r *bitReg8) Set(bit uint8)   { r.raw |= bit }
func (r *bitReg8) Clear(bit uint8) { r.raw &^= bit }
func (r *bitReg8) Has(bit uint8) bool {
	return r.raw&bit != 0
}

// QuesRegister is the QUESTionable-data summary register.
type QuesRegister struct{ bitReg16 }

// OperRegister is the OPERation summary register.
type OperRegister struct{ bitReg16 }

// SesrRegister is the Standard Event Status register.
type SesrRegister struct{ bitReg8 }

// StbRegister is the status byte summary register. Mav is exposed but never
// computed internally — output buffering lives in whatever transport feeds
// the parser, not in this package; an embedder that tracks its own output
// queue depth may drive it with Set/Clear/Has(StbMav).
type StbRegister struct{ bitReg8 }

// StatusRegisters bundles QUES/OPER/SESR/STB and their enable masks, created
// once at startup and mutated only through Parser.
type StatusRegisters struct {
	QUES   QuesRegister
	QUESEn QuesRegister

	OPER   OperRegister
	OPEREn OperRegister

	SESR SesrRegister
	ESE  uint8 // SESR enable mask (*ESE)

	STB StbRegister
	SRE uint8 // service-request enable mask over STB
}

// NewStatusRegisters returns the power-on state: all zero except
// SESR.POWER_ON=1 and QUES_EN/OPER_EN all-ones.
func NewStatusRegisters() *StatusRegisters {
	r := &StatusRegisters{}
	r.SESR.Set(SesrPowerOn)
	r.QUESEn.SetRaw(0xFFFF)
	r.OPEREn.SetRaw(0xFFFF)
	return r
}

// propagate recomputes STB's summary bits from the event/enable registers
// and the error queue count, then recomputes RQS from STB & SRE. It returns
// true exactly on a 0→1 transition of RQS.
func (r *StatusRegisters) propagate(errCount int) bool {
	setBit8(&r.STB.raw, StbErrQ, errCount > 0)
	setBit8(&r.STB.raw, StbQues, r.QUES.raw&r.QUESEn.raw != 0)
	setBit8(&r.STB.raw, StbSesr, r.SESR.raw&r.ESE != 0)
	setBit8(&r.STB.raw, StbOper, r.OPER.raw&r.OPEREn.raw != 0)

	wasRQS := r.STB.Has(StbRqs)
	nowRQS := r.STB.raw&r.SRE != 0
	setBit8(&r.STB.raw, StbRqs, nowRQS)

	return !wasRQS && nowRQS
}

func setBit8(raw *uint8, bit uint8, set bool) {
	if set {
		*raw |= bit
	} else {
		*raw &^= bit
	}
}
