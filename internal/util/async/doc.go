// Package async runs independent operations concurrently and collects their
// errors.
//
// [Run] is used during provider discovery, where the network lookup and the
// image catalog fetch do not depend on each other.
package async
