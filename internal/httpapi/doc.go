// Package httpapi exposes the subscription workflow over HTTP.
//
// Every reply uses the envelope {"success", "message", "data"}. Domain
// errors are mapped to status codes in one place (toHTTPError); clients only
// see the duplicate and not-found messages verbatim, everything else gets a
// generic message while the cause is logged.
//
//	POST   /subscribe     {"email", "name"?}      201, 400, 409, 500
//	GET    /subscribers                           200, 500
//	DELETE /unsubscribe   {"email"}               200, 400, 404, 500
//	GET    /health                                200 empty body
//	GET    /health/ready                          200, 503
//	POST   /send-email    {"to","subject","body"} 200, 400, 401, 502 (X-API-Key)
package httpapi
