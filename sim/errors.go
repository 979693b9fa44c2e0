package sim

import "errors"

// Error taxonomy for the engine. InputError-class failures surface before a
// run starts and are never partially applied; transition violations indicate
// an engine or policy defect and abort the run at the point of occurrence;
// policy rejections are recoverable and leave the call Pending.
var (
	// ErrInput marks malformed or inconsistent input records.
	ErrInput = errors.New("invalid input")

	// ErrUnknownLocation is returned when a travel-time query or input record
	// references a location absent from the network node set.
	ErrUnknownLocation = errors.New("unknown location")

	// ErrUnknownAmbulance is returned for operations on an unregistered unit.
	ErrUnknownAmbulance = errors.New("unknown ambulance")

	// ErrInvalidTransition is returned when a state change violates the call
	// or ambulance state machine.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrPolicyRejected marks a policy decision that named an ineligible
	// (non-Idle) unit. The affected call stays Pending.
	ErrPolicyRejected = errors.New("policy selected ineligible ambulance")
)
