// Package wlan holds the live directory of access points and stations of a
// wireless network together with the identifiers and geometry helpers the
// aggregation controller needs.
//
// The Directory exclusively owns every AP and station record. Callers receive
// copies and mutate the records only through the Directory's setters.
package wlan
