// Package dhcpv4 provides the DHCPv4 protocol constants shared by the
// classification and configuration layers.
package dhcpv4

// Message types (RFC 2131 §9.6).
type MessageType byte

const (
	MessageTypeDiscover MessageType = 1 // DHCPDISCOVER
	MessageTypeOffer    MessageType = 2 // DHCPOFFER
	MessageTypeRequest  MessageType = 3 // DHCPREQUEST
	MessageTypeDecline  MessageType = 4 // DHCPDECLINE
	MessageTypeAck      MessageType = 5 // DHCPACK
	MessageTypeNak      MessageType = 6 // DHCPNAK
	MessageTypeRelease  MessageType = 7 // DHCPRELEASE
	MessageTypeInform   MessageType = 8 // DHCPINFORM
)

func (m MessageType) String() string {
	switch m {
	case MessageTypeDiscover:
		return "DHCPDISCOVER"
	case MessageTypeOffer:
		return "DHCPOFFER"
	case MessageTypeRequest:
		return "DHCPREQUEST"
	case MessageTypeDecline:
		return "DHCPDECLINE"
	case MessageTypeAck:
		return "DHCPACK"
	case MessageTypeNak:
		return "DHCPNAK"
	case MessageTypeRelease:
		return "DHCPRELEASE"
	case MessageTypeInform:
		return "DHCPINFORM"
	default:
		return "UNKNOWN"
	}
}

// Op codes (RFC 2131 §2).
type OpCode byte

const (
	OpCodeBootRequest OpCode = 1 // BOOTREQUEST
	OpCodeBootReply   OpCode = 2 // BOOTREPLY
)

// Hardware types (RFC 1700).
type HardwareType byte

const (
	HardwareTypeEthernet HardwareType = 1
)

// Option codes (RFC 2132 and extensions). Only the codes the server's
// configuration and classification layers reference by name.
type OptionCode byte

const (
	OptionPad                OptionCode = 0
	OptionSubnetMask         OptionCode = 1
	OptionRouter             OptionCode = 3
	OptionDomainNameServer   OptionCode = 6
	OptionHostname           OptionCode = 12
	OptionDomainName         OptionCode = 15
	OptionBroadcastAddress   OptionCode = 28
	OptionVendorExtensions   OptionCode = 43
	OptionRequestedIPAddress OptionCode = 50
	OptionAddressLeaseTime   OptionCode = 51
	OptionMessageType        OptionCode = 53
	OptionServerIdentifier   OptionCode = 54
	OptionParameterRequest   OptionCode = 55
	OptionVendorClassID      OptionCode = 60
	OptionClientIdentifier   OptionCode = 61
	OptionRelayAgentInfo     OptionCode = 82
	OptionDomainSearch       OptionCode = 119
	OptionEnd                OptionCode = 255
)

func (o OptionCode) String() string {
	switch o {
	case OptionPad:
		return "pad"
	case OptionSubnetMask:
		return "subnet-mask"
	case OptionRouter:
		return "router"
	case OptionDomainNameServer:
		return "domain-name-server"
	case OptionHostname:
		return "hostname"
	case OptionDomainName:
		return "domain-name"
	case OptionBroadcastAddress:
		return "broadcast-address"
	case OptionVendorExtensions:
		return "vendor-extensions"
	case OptionRequestedIPAddress:
		return "requested-ip-address"
	case OptionAddressLeaseTime:
		return "address-lease-time"
	case OptionMessageType:
		return "message-type"
	case OptionServerIdentifier:
		return "server-identifier"
	case OptionParameterRequest:
		return "parameter-request-list"
	case OptionVendorClassID:
		return "vendor-class-identifier"
	case OptionClientIdentifier:
		return "client-identifier"
	case OptionRelayAgentInfo:
		return "relay-agent-information"
	case OptionDomainSearch:
		return "domain-search"
	case OptionEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Relay agent information sub-options (RFC 3046).
type RelaySubOption byte

const (
	RelayCircuitID RelaySubOption = 1
	RelayRemoteID  RelaySubOption = 2
)
