package log

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/sirupsen/logrus"
)

var serviceName string

// Init records the service name so every log line carries it.
func Init(name string) {
	serviceName = name
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func LoadPrintProjectName(projectName string) {
	myFigure := figure.NewFigure(projectName, "colossal", true)
	fmt.Println("\n" + myFigure.String())
}

func entry() *logrus.Entry {
	if serviceName == "" {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logrus.WithField("service", serviceName)
}

func Debug(args ...interface{}) {
	entry().Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	entry().Debugf(format, args...)
}

func Info(args ...interface{}) {
	entry().Info(args...)
}

func Infof(format string, args ...interface{}) {
	entry().Infof(format, args...)
}

func Warn(args ...interface{}) {
	entry().Warn(args...)
}

func Warnf(format string, args ...interface{}) {
	entry().Warnf(format, args...)
}

func Error(args ...interface{}) {
	entry().Error(args...)
}

func Errorf(format string, args ...interface{}) {
	entry().Errorf(format, args...)
}

func Panic(args ...interface{}) {
	entry().Panic(args...)
}

func Panicf(format string, args ...interface{}) {
	entry().Panicf(format, args...)
}

func Fatal(args ...interface{}) {
	entry().Fatal(args...)
}

func Fatalf(format string, args ...interface{}) {
	entry().Fatalf(format, args...)
}
