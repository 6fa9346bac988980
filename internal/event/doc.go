// Package event provides the event endpoints of the API: creating and
// updating events, managing guests and hosts, and coupons.
package event
