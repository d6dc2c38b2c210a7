// Package validation checks incoming payloads and normalizes the amounts
// they carry before they reach the service layer.
package validation

import "strings"

// Errors is a list of human readable field problems. It is returned as an
// error by the service layer and rendered as the "details" of a 400 reply.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, "; ")
}
