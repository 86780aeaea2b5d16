// Package engine implements the composition core: a code buffer fed by
// normalized key events, dictionary-driven candidate lookup with pagination,
// complement-code disambiguation, symbol combination, and the
// Intercept/Passthrough mode state machine.
//
// The Dispatcher is the single entry point. It runs inside the frontend's
// key-event callback, so every path is allocation-light, non-blocking, and
// returns a definite Action for the host to carry out. Platform concerns
// (event interception, text injection, candidate rendering) live outside
// this package.
package engine
