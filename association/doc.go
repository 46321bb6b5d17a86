// Package association tracks which station is associated to which access
// point and applies the disable-on-voice policy on every transition.
//
// A voice station joining an aggregating access point drops the access point
// and its bulk and streaming stations to the limited aggregation size. When
// the last voice station leaves, they return to the full size. Voice stations
// themselves never aggregate while the policy is on.
package association
