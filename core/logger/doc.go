// Package logger is a standardized event logging framework for the shell.
//
// Every executed line is recorded as a newline delimited JSON LogEntry so
// sessions can be summarized later with a Report.
package logger
