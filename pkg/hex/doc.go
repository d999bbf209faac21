// Package hex implements cube-coordinate geometry for hexagonal boards:
// rings and boards around a center hex, and the flat-top pixel layout used
// to position each hex on screen.
//
// All functions are pure. A ring is walked as six straight edges, each a
// pair of signed axes where the first drains toward zero and the second
// grows away from it:
//
//	+y->+x, -z->-y, +x->+z, -y->-x, +z->+y, -x->-z
//
// so consecutive coordinates in a ring are always neighbors.
package hex
