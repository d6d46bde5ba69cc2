// Package audit captures the regulatory trail: every compliance decision and
// every placed order leaves an event. Events fan out to the audit store and,
// when brokers are configured, to Kafka for the downstream compliance
// warehouse.
package audit

// Actions recorded by this service.
const (
	ActionComplianceCheck = "compliance_check"
	ActionOrderCreated    = "order_created"
)

// Decisions recorded for compliance checks.
const (
	DecisionAllowed = "allowed"
	DecisionBlocked = "blocked"
)
