// Package filter implements the convolution filters of the post stack.
//
// Blurs are separable: a horizontal pass into a pooled scratch buffer
// followed by a vertical pass, O(w*h*r) instead of O(w*h*r²). Both passes
// run in row bands and every output value is accumulated in kernel order,
// so results do not depend on the worker count.
package filter
