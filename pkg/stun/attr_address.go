// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/stun
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package stun

import (
	"net"

	"github.com/q191201771/naza/pkg/bele"

	"github.com/q191201771/stun/pkg/base"
)

// rfc 5389 15.1
//
// 0                   1                   2                   3
// 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |0 0 0 0 0 0 0 0|    Family     |           Port                |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                                                               |
// |                 Address (32 bits or 128 bits)                 |
// |                                                               |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//
// Figure 5: Format of MAPPED-ADDRESS Attribute
//
// XOR-MAPPED-ADDRESS与MAPPED-ADDRESS排布相同，区别是端口与magic cookie高16bit异或，
// 地址与magic cookie拼接事务ID后的字节流逐字节异或，见rfc 5389 15.2

// MappedAddress rfc 5389 15.1
type MappedAddress struct {
	Ip   net.IP
	Port uint16
}

// XorMappedAddress rfc 5389 15.2
type XorMappedAddress struct {
	Ip   net.IP
	Port uint16
}

func (a MappedAddress) TypeCode() uint16 {
	return AttrTypeMappedAddress
}

func (a MappedAddress) Pack(tid TransactionId) ([]byte, error) {
	return packAddress(a.Ip, a.Port)
}

func (a XorMappedAddress) TypeCode() uint16 {
	return AttrTypeXorMappedAddress
}

func (a XorMappedAddress) Pack(tid TransactionId) ([]byte, error) {
	b, err := packAddress(a.Ip, a.Port^magicCookieHigh16)
	if err != nil {
		return nil, err
	}
	xorAddressInPlace(b[4:], tid)
	return b, nil
}

func unpackMappedAddress(tid TransactionId, b []byte) (Attribute, error) {
	ip, port, err := unpackAddress(b)
	if err != nil {
		return nil, err
	}
	return MappedAddress{Ip: ip, Port: port}, nil
}

func unpackXorMappedAddress(tid TransactionId, b []byte) (Attribute, error) {
	ip, port, err := unpackAddress(b)
	if err != nil {
		return nil, err
	}
	xorAddressInPlace(ip, tid)
	return XorMappedAddress{Ip: ip, Port: port ^ magicCookieHigh16}, nil
}

// ---------------------------------------------------------------------------------------------------------------------

// normalizeIp ipv4统一为4字节形态，保证编解码往返后相等
func normalizeIp(ip net.IP) (net.IP, uint8, error) {
	if v4 := ip.To4(); v4 != nil {
		return v4, addressFamilyIpv4, nil
	}
	if v6 := ip.To16(); v6 != nil {
		return v6, addressFamilyIpv6, nil
	}
	return nil, 0, base.NewErrAttrFamily(0)
}

func packAddress(ip net.IP, port uint16) ([]byte, error) {
	nip, family, err := normalizeIp(ip)
	if err != nil {
		return nil, err
	}
	b := make([]byte, 4+len(nip))
	b[0] = 0
	b[1] = family
	bele.BePutUint16(b[2:], port)
	copy(b[4:], nip)
	return b, nil
}

func unpackAddress(b []byte) (ip net.IP, port uint16, err error) {
	if len(b) < 4 {
		return nil, 0, base.NewErrShortBuffer(4, len(b), "address attribute")
	}
	var addrSize int
	switch b[1] {
	case addressFamilyIpv4:
		addrSize = net.IPv4len
	case addressFamilyIpv6:
		addrSize = net.IPv6len
	default:
		return nil, 0, base.NewErrAttrFamily(b[1])
	}
	if len(b) != 4+addrSize {
		return nil, 0, base.NewErrShortBuffer(4+addrSize, len(b), "address attribute")
	}
	port = bele.BeUint16(b[2:])
	ip = make(net.IP, addrSize)
	copy(ip, b[4:])
	return ip, port, nil
}

// xorAddressInPlace 异或掩码为magic cookie拼接事务ID，ipv4只用到前4字节
func xorAddressInPlace(addr []byte, tid TransactionId) {
	var mask [4 + transactionIdSize]byte
	bele.BePutUint32(mask[:], magicCookie)
	copy(mask[4:], tid[:])
	for i := range addr {
		addr[i] ^= mask[i]
	}
}
