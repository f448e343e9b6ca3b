package scpi

import "github.com/sirupsen/logrus"

// Hooks models the C original's weak symbols (scpi_user_CLS, scpi_user_RST,
// scpi_user_TSTq, scpi_service_request_impl, error-added notification) as
// plain optional function fields — absence is an explicit nil check, never
// linker magic.
type Hooks struct {
	// CLS is invoked by *CLS after the event registers and error queue are
	// cleared.
	CLS func()
	// RST is invoked by *RST. The SCPI state itself is left untouched by
	// *RST — this hook is purely a pass-through to device-specific reset
	// logic.
	RST func()
	// TST is invoked by *TST? before the parser answers "0". It takes no
	// arguments and returns nothing, so the *TST? response is always "0".
	TST func()
	// ServiceRequest fires synchronously, within the byte-handling call
	// that produced a 0→1 RQS transition.
	ServiceRequest func()
	// ErrorAdded is notified after every RaiseError, with the resolved code
	// and canonical message of the raised error. When the queue is full the
	// queue stores -350 Queue overflow instead, but the hook still receives
	// the raised error's code and message.
	ErrorAdded func(code int32, message string)
	// CommandDispatched is notified right before a resolved command's
	// Callback runs, with its canonical colon-joined header. A nil hook is
	// the common case; it exists so an embedder can count dispatches (or
	// feed a metrics registry) without instrumenting every Callback itself.
	CommandDispatched func(header string)
}

// Config is the static configuration record passed once to NewParser — the
// Go translation of the C original's extern command tables plus
// scpi_device_identifier/scpi_send_byte_impl. NewParser stores it as given:
// it does not validate the command tables and returns no error.
type Config struct {
	// Commands is the user command table. Descriptors here shadow built-ins
	// sharing the same canonical header.
	Commands []*Command
	// UserErrors is the positive-code user error table, looked up without
	// fallback rounding.
	UserErrors []UserError
	// Identify supplies the *IDN? response body (no surrounding quotes or
	// EOL).
	Identify func() string
	// Emit is the outbound byte sink. Parser.Emit passes a response with the
	// EOL already appended; Parser.EmitRaw passes bytes with no EOL, so one
	// response line may arrive over several calls (SYSTem:ERRor:ALL? does
	// this).
	Emit func(p []byte)
	// EOL is the response line terminator; defaults to "\r\n".
	EOL string

	Hooks Hooks

	// Logger overrides the package default logger (see SetLogger). Nil
	// keeps the package default.
	Logger *logrus.Logger
}

func (c *Config) eol() string {
	if c.EOL == "" {
		return "\r\n"
	}
	return c.EOL
}
