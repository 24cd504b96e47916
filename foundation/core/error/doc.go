// Package error provides the coded error type shared by all fmwkit packages.
//
// An Error carries a message, an optional cause, a Code, a Severity and a
// set of details. Errors are built with New or Wrap and refined with the
// With* methods:
//
//	err := mdwerror.New("parameter not found").
//		WithCode(mdwerror.CodeNotFound).
//		WithOperation("fmw.Dereference").
//		WithDetail("parameter", name)
//
// Errors unwrap to their cause, so errors.Is and errors.As work across
// wrapped chains. HasCode and GetCode inspect the first coded error in a
// chain.
package error
