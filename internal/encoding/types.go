package encoding

import (
	"fmt"
)

// AMQPType is an AMQP 1.0 primitive format code.
type AMQPType uint8

// Type codes
const (
	TypeCodeNull AMQPType = 0x40

	// Bool
	TypeCodeBool      AMQPType = 0x56 // boolean with the octet 0x00 being false and octet 0x01 being true
	TypeCodeBoolTrue  AMQPType = 0x41
	TypeCodeBoolFalse AMQPType = 0x42

	// Unsigned
	TypeCodeUbyte      AMQPType = 0x50 // 8-bit unsigned integer (1)
	TypeCodeUshort     AMQPType = 0x60 // 16-bit unsigned integer in network byte order (2)
	TypeCodeUint       AMQPType = 0x70 // 32-bit unsigned integer in network byte order (4)
	TypeCodeSmallUint  AMQPType = 0x52 // unsigned integer value in the range 0 to 255 inclusive (1)
	TypeCodeUint0      AMQPType = 0x43 // the uint value 0 (0)
	TypeCodeUlong      AMQPType = 0x80 // 64-bit unsigned integer in network byte order (8)
	TypeCodeSmallUlong AMQPType = 0x53 // unsigned long value in the range 0 to 255 inclusive (1)
	TypeCodeUlong0     AMQPType = 0x44 // the ulong value 0 (0)

	// Signed
	TypeCodeByte      AMQPType = 0x51 // 8-bit two's-complement integer (1)
	TypeCodeShort     AMQPType = 0x61 // 16-bit two's-complement integer in network byte order (2)
	TypeCodeInt       AMQPType = 0x71 // 32-bit two's-complement integer in network byte order (4)
	TypeCodeSmallint  AMQPType = 0x54 // 8-bit two's-complement integer (1)
	TypeCodeLong      AMQPType = 0x81 // 64-bit two's-complement integer in network byte order (8)
	TypeCodeSmalllong AMQPType = 0x55 // 8-bit two's-complement integer

	// Decimal
	TypeCodeFloat      AMQPType = 0x72 // IEEE 754-2008 binary32 (4)
	TypeCodeDouble     AMQPType = 0x82 // IEEE 754-2008 binary64 (8)
	TypeCodeDecimal32  AMQPType = 0x74 // IEEE 754-2008 decimal32 using the Binary Integer Decimal encoding (4)
	TypeCodeDecimal64  AMQPType = 0x84 // IEEE 754-2008 decimal64 using the Binary Integer Decimal encoding (8)
	TypeCodeDecimal128 AMQPType = 0x94 // IEEE 754-2008 decimal128 using the Binary Integer Decimal encoding (16)

	// Other
	TypeCodeChar      AMQPType = 0x73 // a UTF-32BE encoded Unicode character (4)
	TypeCodeTimestamp AMQPType = 0x83 // 64-bit two's-complement integer representing milliseconds since the unix epoch
	TypeCodeUUID      AMQPType = 0x98 // UUID as defined in section 4.1.2 of RFC-4122

	// Variable Length
	TypeCodeVbin8  AMQPType = 0xa0 // up to 2^8 - 1 octets of binary data (1 + variable)
	TypeCodeVbin32 AMQPType = 0xb0 // up to 2^32 - 1 octets of binary data (4 + variable)
	TypeCodeStr8   AMQPType = 0xa1 // up to 2^8 - 1 octets worth of UTF-8 Unicode (with no byte order mark) (1 + variable)
	TypeCodeStr32  AMQPType = 0xb1 // up to 2^32 - 1 octets worth of UTF-8 Unicode (with no byte order mark) (4 +variable)
	TypeCodeSym8   AMQPType = 0xa3 // up to 2^8 - 1 seven bit ASCII characters representing a symbolic value (1 + variable)
	TypeCodeSym32  AMQPType = 0xb3 // up to 2^32 - 1 seven bit ASCII characters representing a symbolic value (4 + variable)

	// Compound
	TypeCodeList0   AMQPType = 0x45 // the empty list (i.e. the list with no elements) (0)
	TypeCodeList8   AMQPType = 0xc0 // up to 2^8 - 1 list elements with total size less than 2^8 octets (1 + compound)
	TypeCodeList32  AMQPType = 0xd0 // up to 2^32 - 1 list elements with total size less than 2^32 octets (4 + compound)
	TypeCodeMap8    AMQPType = 0xc1 // up to 2^8 - 1 octets of encoded map data (1 + compound)
	TypeCodeMap32   AMQPType = 0xd1 // up to 2^32 - 1 octets of encoded map data (4 + compound)
	TypeCodeArray8  AMQPType = 0xe0 // up to 2^8 - 1 array elements with total size less than 2^8 octets (1 + array)
	TypeCodeArray32 AMQPType = 0xf0 // up to 2^32 - 1 array elements with total size less than 2^32 octets (4 + array)

	// Composites
	TypeCodeSource      AMQPType = 0x28
	TypeCodeTarget      AMQPType = 0x29
	TypeCodeCoordinator AMQPType = 0x30

	TypeCodeDeleteOnClose             AMQPType = 0x2b
	TypeCodeDeleteOnNoLinks           AMQPType = 0x2c
	TypeCodeDeleteOnNoMessages        AMQPType = 0x2d
	TypeCodeDeleteOnNoLinksOrMessages AMQPType = 0x2e
)

// Symbol is an AMQP symbolic string.
type Symbol string

// Durability specifies the durability of a terminus.
type Durability uint32

// Durability Policies
const (
	// No terminus state is retained durably.
	DurabilityNone Durability = 0

	// Only the existence and configuration of the terminus is
	// retained durably.
	DurabilityConfiguration Durability = 1

	// In addition to the existence and configuration of the
	// terminus, the unsettled state for durable messages is
	// retained durably.
	DurabilityUnsettledState Durability = 2
)

func (d Durability) String() string {
	switch d {
	case DurabilityNone:
		return "none"
	case DurabilityConfiguration:
		return "configuration"
	case DurabilityUnsettledState:
		return "unsettled-state"
	default:
		return fmt.Sprintf("unknown durability %d", uint32(d))
	}
}

// ParseDurability maps the textual name of a durability policy to its value.
func ParseDurability(s string) (Durability, error) {
	switch s {
	case "", "none":
		return DurabilityNone, nil
	case "configuration":
		return DurabilityConfiguration, nil
	case "unsettled-state":
		return DurabilityUnsettledState, nil
	default:
		return 0, fmt.Errorf("unknown durability %q", s)
	}
}

// ExpiryPolicy specifies when the expiry timer of a terminus
// starts counting down from the timeout value.
type ExpiryPolicy Symbol

// Expiry Policies
const (
	// The expiry timer starts when terminus is detached.
	ExpiryLinkDetach ExpiryPolicy = "link-detach"

	// The expiry timer starts when the most recently
	// associated session is ended.
	ExpirySessionEnd ExpiryPolicy = "session-end"

	// The expiry timer starts when most recently associated
	// connection is closed.
	ExpiryConnectionClose ExpiryPolicy = "connection-close"

	// The terminus never expires.
	ExpiryNever ExpiryPolicy = "never"
)

func (e ExpiryPolicy) String() string {
	return string(e)
}

// Validate returns an error if e is not one of the defined expiry policies.
func (e ExpiryPolicy) Validate() error {
	switch e {
	case ExpiryLinkDetach,
		ExpirySessionEnd,
		ExpiryConnectionClose,
		ExpiryNever:
		return nil
	default:
		return fmt.Errorf("unknown expiry-policy %q", e)
	}
}

// DistributionMode controls whether messages sent to a node are moved
// to one consumer or copied to all of them.
type DistributionMode Symbol

// Distribution Modes
const (
	// The node decides.
	DistributionUnspecified DistributionMode = ""

	// Once successfully transferred over the link, the message will
	// no longer be available to other links from the same node.
	DistributionMove DistributionMode = "move"

	// Once successfully transferred over the link, the message is
	// still available for other links from the same node.
	DistributionCopy DistributionMode = "copy"
)

func (m DistributionMode) String() string {
	if m == DistributionUnspecified {
		return "unspecified"
	}
	return string(m)
}

// ParseDistributionMode maps the textual name of a distribution mode to its value.
func ParseDistributionMode(s string) (DistributionMode, error) {
	switch s {
	case "", "unspecified":
		return DistributionUnspecified, nil
	case "move":
		return DistributionMove, nil
	case "copy":
		return DistributionCopy, nil
	default:
		return "", fmt.Errorf("unknown distribution-mode %q", s)
	}
}

// TerminusType identifies what a wire terminus describes.
type TerminusType uint8

// Terminus Types
const (
	TerminusUnspecified TerminusType = iota
	TerminusSource
	TerminusTarget
	TerminusCoordinator
)

func (t TerminusType) String() string {
	switch t {
	case TerminusUnspecified:
		return "unspecified"
	case TerminusSource:
		return "source"
	case TerminusTarget:
		return "target"
	case TerminusCoordinator:
		return "coordinator"
	default:
		return fmt.Sprintf("unknown terminus type %d", uint8(t))
	}
}

// ParseTerminusType maps the textual name of a terminus type to its value.
func ParseTerminusType(s string) (TerminusType, error) {
	switch s {
	case "", "unspecified":
		return TerminusUnspecified, nil
	case "source":
		return TerminusSource, nil
	case "target":
		return TerminusTarget, nil
	case "coordinator":
		return TerminusCoordinator, nil
	default:
		return 0, fmt.Errorf("unknown terminus type %q", s)
	}
}
