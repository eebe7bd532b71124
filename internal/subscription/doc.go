// Package subscription implements the subscribe and unsubscribe workflows.
//
// Subscribe inserts first and notifies second. The insert is the commit
// point: a duplicate or store failure ends the request, while a failed
// welcome email is logged and reported as OutcomeSubscribedNotifyFailed
// without removing the row.
package subscription
