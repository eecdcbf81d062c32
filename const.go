package router

import "github.com/qdgo/router/internal/encoding"

// Durability Policies
const (
	// No terminus state is retained durably.
	DurabilityNone Durability = encoding.DurabilityNone

	// Only the existence and configuration of the terminus is
	// retained durably.
	DurabilityConfiguration Durability = encoding.DurabilityConfiguration

	// In addition to the existence and configuration of the
	// terminus, the unsettled state for durable messages is
	// retained durably.
	DurabilityUnsettledState Durability = encoding.DurabilityUnsettledState
)

// Durability specifies the durability of a terminus.
type Durability = encoding.Durability

// Expiry Policies
const (
	// The expiry timer starts when terminus is detached.
	ExpiryLinkDetach ExpiryPolicy = encoding.ExpiryLinkDetach

	// The expiry timer starts when the most recently
	// associated session is ended.
	ExpirySessionEnd ExpiryPolicy = encoding.ExpirySessionEnd

	// The expiry timer starts when most recently associated
	// connection is closed.
	ExpiryConnectionClose ExpiryPolicy = encoding.ExpiryConnectionClose

	// The terminus never expires.
	ExpiryNever ExpiryPolicy = encoding.ExpiryNever
)

// ExpiryPolicy specifies when the expiry timer of a terminus
// starts counting down from the timeout value.
//
// If the link is subsequently re-attached before the terminus is expired,
// then the count down is aborted. If the conditions for the
// terminus-expiry-policy are subsequently re-met, the expiry timer restarts
// from its originally configured timeout value.
type ExpiryPolicy = encoding.ExpiryPolicy

// Distribution Modes
const (
	// The node chooses the distribution mode.
	DistributionUnspecified DistributionMode = encoding.DistributionUnspecified

	// Messages are moved: a message transferred over the link is no
	// longer available to other links from the same node.
	DistributionMove DistributionMode = encoding.DistributionMove

	// Messages are copied: a message transferred over the link remains
	// available to other links from the same node.
	DistributionCopy DistributionMode = encoding.DistributionCopy
)

// DistributionMode specifies how messages are shared between the
// links attached to a node.
type DistributionMode = encoding.DistributionMode

// Terminus Types
const (
	TerminusUnspecified TerminusType = encoding.TerminusUnspecified
	TerminusSource      TerminusType = encoding.TerminusSource
	TerminusTarget      TerminusType = encoding.TerminusTarget

	// A transaction coordinator target.
	TerminusCoordinator TerminusType = encoding.TerminusCoordinator
)

// TerminusType identifies which end of a link a WireTerminus describes.
type TerminusType = encoding.TerminusType

// DynamicNodePropertyAddress is the dynamic-node-properties key under which
// a peer requesting a dynamic terminus suggests the address to assign.
const DynamicNodePropertyAddress Symbol = "address"
