// Package access decides which capabilities an authenticated actor holds and
// whether a protected surface may be shown to them. Every function is a pure
// function of its arguments; the actor is always passed explicitly.
package access
