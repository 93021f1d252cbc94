package util

import (
	log "github.com/sirupsen/logrus"
)

// Debug is the highest trace level that DPrintf emits.
var Debug uint64 = 0

var logger = log.New()

func SetDebug(level uint64) {
	Debug = level
}

// Logger exposes the trace sink so binaries can change its output or format.
func Logger() *log.Logger {
	return logger
}

func DPrintf(level uint64, format string, a ...interface{}) {
	if level <= Debug {
		logger.WithField("trace", level).Infof(format, a...)
	}
}

// RoundUp returns the number of sz-sized units needed to hold n.
func RoundUp(n uint64, sz uint64) uint64 {
	return (n + sz - 1) / sz
}

// AlignDown rounds n down to a multiple of sz.
func AlignDown(n uint64, sz uint64) uint64 {
	return n / sz * sz
}

// AlignUp rounds n up to a multiple of sz.
func AlignUp(n uint64, sz uint64) uint64 {
	return RoundUp(n, sz) * sz
}

func Min(n uint64, m uint64) uint64 {
	if n < m {
		return n
	} else {
		return m
	}
}

func SumOverflows(n uint64, m uint64) bool {
	return n+m < n
}
