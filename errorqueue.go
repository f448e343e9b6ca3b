package scpi

import "fmt"

// UserError is a positive, instrument-specific error code/message pair,
// supplied via Config.UserErrors. Positive codes are looked up here without
// any rounding fallback.
type UserError struct {
	Code    int32
	Message string
}

type errorEntry struct {
	code int32
	msg  string
}

// standardErrors transcribes original_source/source/scpi_errors.c's
// error_table verbatim (messages only; Title-case exactly as the C source
// prints them).
var standardErrors = []errorEntry{
	{0, "No error"},
	{-100, "Command error"},
	{-101, "Invalid character"},
	{-102, "Syntax error"},
	{-103, "Invalid separator"},
	{-104, "Data type error"},
	{-105, "GET not allowed"},
	{-108, "Parameter not allowed"},
	{-109, "Missing parameter"},
	{-110, "Command header error"},
	{-111, "Header separator error"},
	{-112, "Program mnemonic too long"},
	{-113, "Undefined header"},
	{-114, "Header suffix out of range"},
	{-115, "Unexpected number of parameters"},
	{-120, "Numeric data error"},
	{-121, "Invalid character in number"},
	{-123, "Exponent too large"},
	{-124, "Too many digits"},
	{-128, "Numeric data not allowed"},
	{-130, "Suffix error"},
	{-131, "Invalid suffix"},
	{-134, "Suffix too long"},
	{-138, "Suffix not allowed"},
	{-140, "Character data error"},
	{-141, "Invalid character data"},
	{-144, "Character data too long"},
	{-148, "Character data not allowed"},
	{-150, "String data error"},
	{-151, "Invalid string data"},
	{-158, "String data not allowed"},
	{-160, "Block data error"},
	{-161, "Invalid block data"},
	{-168, "Block data not allowed"},
	{-170, "Expression error"},
	{-171, "Invalid expression"},
	{-178, "Expression data not allowed"},
	{-180, "Macro error"},
	{-181, "Invalid outside macro definition"},
	{-183, "Invalid inside macro definition"},
	{-184, "Macro parameter error"},
	{-200, "Execution error"},
	{-201, "Invalid while in local"},
	{-202, "Settings lost due to rtl"},
	{-203, "Command protected"},
	{-210, "Trigger error"},
	{-211, "Trigger ignored"},
	{-212, "Arm ignored"},
	{-213, "Init ignored"},
	{-214, "Trigger deadlock"},
	{-215, "Arm deadlock"},
	{-220, "Parameter error"},
	{-221, "Settings conflict"},
	{-222, "Data out of range"},
	{-223, "Too much data"},
	{-224, "Illegal parameter value"},
	{-225, "Out of memory"},
	{-226, "Lists not same length"},
	{-230, "Data corrupt or stale"},
	{-231, "Data questionable"},
	{-232, "Invalid format"},
	{-233, "Invalid version"},
	{-240, "Hardware error"},
	{-241, "Hardware missing"},
	{-250, "Mass storage error"},
	{-251, "Missing mass storage"},
	{-252, "Missing media"},
	{-253, "Corrupt media"},
	{-254, "Media full"},
	{-255, "Directory full"},
	{-256, "File name not found"},
	{-257, "File name error"},
	{-258, "Media protected"},
	{-260, "Expression error"},
	{-261, "Math error in expression"},
	{-270, "Macro error"},
	{-271, "Macro syntax error"},
	{-272, "Macro execution error"},
	{-273, "Illegal macro label"},
	{-274, "Macro parameter error"},
	{-275, "Macro definition too long"},
	{-276, "Macro recursion error"},
	{-277, "Macro redefinition not allowed"},
	{-278, "Macro header not found"},
	{-280, "Program error"},
	{-281, "Cannot create program"},
	{-282, "Illegal program name"},
	{-283, "Illegal variable name"},
	{-284, "Program currently running"},
	{-285, "Program syntax error"},
	{-286, "Program runtime error"},
	{-290, "Memory use error"},
	{-291, "Out of memory"},
	{-292, "Referenced name does not exist"},
	{-293, "Referenced name already exists"},
	{-294, "Incompatible type"},
	{-300, "Device-specific error"},
	{-310, "System error"},
	{-311, "Memory error"},
	{-312, "PUD memory lost"},
	{-313, "Calibration memory lost"},
	{-314, "Save/recall memory lost"},
	{-315, "Configuration memory lost"},
	{-320, "Storage fault"},
	{-321, "Out of memory"},
	{-330, "Self-test failed"},
	{-340, "Calibration failed"},
	{-350, "Queue overflow"},
	{-360, "Communication error"},
	{-361, "Parity error in program message"},
	{-362, "Framing error in program message"},
	{-363, "Input buffer overrun"},
	{-365, "Time out error"},
	{-400, "Query error"},
	{-410, "Query INTERRUPTED"},
	{-420, "Query UNTERMINATED"},
	{-430, "Query DEADLOCKED"},
	{-440, "Query UNTERMINATED after indefinite response"},
	{-500, "Power on"},
	{-600, "User request"},
	{-700, "Request control"},
	{-800, "Operation complete"},
}

func lookupStandard(code int32) (string, bool) {
	for _, e := range standardErrors {
		if e.code == code {
			return e.msg, true
		}
	}
	return "", false
}

// resolveErrorCode resolves a raw code to its canonical (code, message) pair:
// a standard error code is looked up as-is; failing that, rounded toward
// zero to the next multiple of 10 present in the table, then to the next
// multiple of 100; failing that, the class boundary (-100/-200/-300/-400),
// which is always present. Positive codes are user-defined and looked up in
// userTable without any fallback.
func resolveErrorCode(code int32, userTable []UserError) (int32, string) {
	if code > 0 {
		for _, u := range userTable {
			if u.Code == code {
				return code, u.Message
			}
		}
		return code, "User-defined error"
	}
	if msg, ok := lookupStandard(code); ok {
		return code, msg
	}
	r10 := (code / 10) * 10
	if msg, ok := lookupStandard(r10); ok {
		return r10, msg
	}
	r100 := (code / 100) * 100
	if msg, ok := lookupStandard(r100); ok {
		return r100, msg
	}
	boundary := classBoundary(code)
	if msg, ok := lookupStandard(boundary); ok {
		return boundary, msg
	}
	return 0, "No error"
}

// classBoundary returns the negative range boundary for code's SESR class.
func classBoundary(code int32) int32 {
	switch {
	case code <= -100 && code >= -199:
		return -100
	case code <= -200 && code >= -299:
		return -200
	case code <= -300 && code >= -399:
		return -300
	case code <= -400 && code >= -499:
		return -400
	default:
		return -300
	}
}

// sesrBitForCode maps a resolved error code to the SESR bit it sets.
func sesrBitForCode(code int32) uint8 {
	switch {
	case code <= -100 && code >= -199:
		return SesrCmdError
	case code <= -200 && code >= -299:
		return SesrExeError
	case code <= -400 && code >= -499:
		return SesrQueryError
	case (code <= -300 && code >= -399) || code > 0:
		return SesrDevError
	default:
		return 0
	}
}

// SesrBitForCode is the exported form of sesrBitForCode, for callers (such
// as a metrics registry) that need to classify an error code returned by
// Hooks.ErrorAdded the same way the parser itself does.
func SesrBitForCode(code int32) uint8 {
	return sesrBitForCode(code)
}

// errorString renders the "<code>,\"<message>[; <extra>]\"" wire text,
// matching original_source/source/scpi_errors.c's scpi_error_string
// formatting.
func errorString(code int32, msg, extra string) string {
	if extra == "" {
		return fmt.Sprintf("%d,\"%s\"", code, msg)
	}
	return fmt.Sprintf("%d,\"%s; %s\"", code, msg, extra)
}

// ErrorQueue is a bounded 4-slot FIFO. Overflow overwrites the most recently
// written slot with -350 Queue overflow after one step of backtracking,
// rather than growing or dropping silently.
type ErrorQueue struct {
	codes [4]int32
	texts [4]string
	read  int
	write int
	count int8
}

const errQueueDepth = 4

func NewErrorQueue() *ErrorQueue {
	return &ErrorQueue{}
}

// Push adds an already-resolved (code, message, extra) to the queue.
func (q *ErrorQueue) Push(code int32, msg, extra string) {
	if int(q.count) >= errQueueDepth {
		q.write--
		q.count--
		if q.write < 0 {
			q.write = errQueueDepth - 1
		}
		code, msg, extra = -350, "Queue overflow", ""
	}

	q.codes[q.write] = code
	q.texts[q.write] = errorString(code, msg, extra)
	q.write++
	q.count++
	if q.write >= errQueueDepth {
		q.write = 0
	}
}

// Pop removes and returns the oldest queued error's full text. Returns
// ("0,\"No error\"", 0) when empty.
func (q *ErrorQueue) Pop() (string, int32) {
	if q.count == 0 {
		return errorString(0, "No error", ""), 0
	}
	text, code := q.texts[q.read], q.codes[q.read]
	q.read++
	q.count--
	if q.read >= errQueueDepth {
		q.read = 0
	}
	return text, code
}

// PeekNoRemove returns the oldest queued error's text without removing it.
func (q *ErrorQueue) PeekNoRemove() string {
	if q.count == 0 {
		return errorString(0, "No error", "")
	}
	return q.texts[q.read]
}

func (q *ErrorQueue) Count() int {
	return int(q.count)
}

func (q *ErrorQueue) Clear() {
	q.read, q.write, q.count = 0, 0, 0
}
