// Package errors provides coded, actionable error values for summon.
//
// Every error the runtime raises on purpose carries a short code (E001,
// E010, ...) registered here together with a category, a one-line message
// and a longer explanation. The compose, render and ssr packages wrap these
// in their own public error types; the CLI prints them with Format.
//
// # Categories
//
//   - structural: slot table corruption (unmatched groups, wrong slot type)
//   - config: missing composer, renderer or other provider
//   - effect: failures inside effect setup, cleanup or launched bodies
//   - render: HTML or document assembly failures
//   - validation: user input rejected by a component
//   - cli: command line and configuration file problems
//
// # Usage
//
//	err := errors.New("E001").
//	    WithDetail("endGroup at depth 2 without matching startGroup").
//	    WithSuggestion("check that every StartGroup has an EndGroup")
//
//	fmt.Println(err.Format())
package errors
