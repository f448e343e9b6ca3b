package scpi

import "github.com/sirupsen/logrus"

// _lg is the package default logger, in the same spirit as
// Yobol-go-iec104/define.go's package-level _lg. A Parser built with
// Config.Logger == nil logs through this default.
var _lg = logrus.New()

// SetLogger replaces the package default logger used by Parsers built
// without their own Config.Logger.
func SetLogger(lg *logrus.Logger) {
	if lg != nil {
		_lg = lg
	}
}
