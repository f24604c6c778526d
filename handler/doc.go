// Package handler validates inbound API events and serves them against the
// graph.
//
// Every event passes through Event.Validate before any query runs. Routing
// then depends on the query parameters:
//
//   - no left label: account routes. Basic GET issues a token, basic POST
//     registers, bearer GET lists labels, bearer DELETE removes the account.
//   - left label: entity routes under bearer auth, one method per operation.
//   - left uuid and right label: routes over the entities linked to the left one.
//
// Failures are classified by Kind. Clients receive only the reason code and
// the status text; wrapped detail goes to the log.
//
// FromAPIGateway and Gin adapt the two supported transports.
package handler
