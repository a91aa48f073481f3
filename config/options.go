package config

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/miekg/dns"
	"gopkg.in/yaml.v3"
)

// OptionValue is one typed option value as written in the classes file:
// a {type, value} pair whose value shape depends on the type tag.
// Supported types are ip, ip_list, domain_list, u8, u16, u32, i32,
// bool, str, b64, hex and sub_option.
type OptionValue struct {
	Type  string    `yaml:"type"`
	Value yaml.Node `yaml:"value"`
}

// Encode renders the value to its DHCP wire payload (the option data
// only, without code and length). Multi-byte integers are big-endian;
// domain lists use DNS wire-format names; sub_option maps nest as a TLV
// blob.
func (v *OptionValue) Encode() ([]byte, error) {
	switch v.Type {
	case "ip":
		var s string
		if err := v.Value.Decode(&s); err != nil {
			return nil, err
		}
		return encodeIP(s)

	case "ip_list":
		var list []string
		if err := v.Value.Decode(&list); err != nil {
			return nil, err
		}
		var buf []byte
		for _, s := range list {
			ip, err := encodeIP(s)
			if err != nil {
				return nil, err
			}
			buf = append(buf, ip...)
		}
		return buf, nil

	case "domain_list":
		var list []string
		if err := v.Value.Decode(&list); err != nil {
			return nil, err
		}
		return encodeDomainList(list)

	case "u8":
		var n uint8
		if err := v.Value.Decode(&n); err != nil {
			return nil, err
		}
		return []byte{n}, nil

	case "u16":
		var n uint16
		if err := v.Value.Decode(&n); err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint16(nil, n), nil

	case "u32":
		var n uint32
		if err := v.Value.Decode(&n); err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint32(nil, n), nil

	case "i32":
		var n int32
		if err := v.Value.Decode(&n); err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint32(nil, uint32(n)), nil

	case "bool":
		var b bool
		if err := v.Value.Decode(&b); err != nil {
			return nil, err
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil

	case "str":
		var s string
		if err := v.Value.Decode(&s); err != nil {
			return nil, err
		}
		return []byte(s), nil

	case "b64":
		var s string
		if err := v.Value.Decode(&s); err != nil {
			return nil, err
		}
		return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))

	case "hex":
		var s string
		if err := v.Value.Decode(&s); err != nil {
			return nil, err
		}
		return hex.DecodeString(s)

	case "sub_option":
		var subs map[uint8]OptionValue
		if err := v.Value.Decode(&subs); err != nil {
			return nil, err
		}
		return encodeSubOptions(subs)

	default:
		return nil, fmt.Errorf("unknown option value type %q", v.Type)
	}
}

func encodeIP(s string) ([]byte, error) {
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("invalid ipv4 address %q", s)
	}
	return ip.To4(), nil
}

// encodeDomainList packs names in DNS wire format, back to back, as the
// domain search option expects.
func encodeDomainList(names []string) ([]byte, error) {
	var buf []byte
	for _, name := range names {
		wire := make([]byte, 255)
		off, err := dns.PackDomainName(dns.Fqdn(name), wire, 0, nil, false)
		if err != nil {
			return nil, fmt.Errorf("domain %q: %w", name, err)
		}
		buf = append(buf, wire[:off]...)
	}
	return buf, nil
}

// encodeSubOptions renders a nested option map as a TLV stream, the
// same layout the evaluator's .option[N] postfix walks. Codes encode in
// ascending order so the output is deterministic.
func encodeSubOptions(subs map[uint8]OptionValue) ([]byte, error) {
	codes := make([]int, 0, len(subs))
	for code := range subs {
		codes = append(codes, int(code))
	}
	sort.Ints(codes)

	var buf []byte
	for _, code := range codes {
		sub := subs[uint8(code)]
		payload, err := sub.Encode()
		if err != nil {
			return nil, fmt.Errorf("sub-option %d: %w", code, err)
		}
		if len(payload) > 255 {
			return nil, fmt.Errorf("sub-option %d: payload exceeds 255 bytes", code)
		}
		buf = append(buf, byte(code), byte(len(payload)))
		buf = append(buf, payload...)
	}
	return buf, nil
}
