// Package logging builds the process logger: logrus with the nested
// formatter, caller information first, and optional rotated file output.
// Components receive a *logrus.Entry carrying a "component" field.
package logging
