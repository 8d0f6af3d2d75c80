// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/stun
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package stun
//
// Session Traversal Utilities for NAT
//
// rfc 5389
//
// 消息编解码（包括属性的TLV编解码），客户端事务（重传、超时、匹配应答），服务端分发
package stun

// 0                   1                   2                   3
// 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |0 0|     STUN Message Type     |         Message Length        |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                         Magic Cookie                          |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                                                               |
// |                     Transaction ID (96 bits)                  |
// |                                                               |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//
// Figure 2: Format of STUN Message Header
//
// 0                   1                   2                   3
// 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |         Type                  |            Length             |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                         Value (variable)                ....
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//
// Figure 4: Format of STUN Attributes

var DefaultPort = 3478

const (
	headerSize = 20

	magicCookie       = 0x2112a442
	magicCookieHigh16 = magicCookie >> 16
)

const (
	// rfc 5389 15. 属性类型
	//
	// 0x8000以下的属性为comprehension-required，解析方不认识时必须报错
	// 0x8000及以上的为comprehension-optional，不认识时跳过即可

	AttrTypeMappedAddress    uint16 = 0x0001
	AttrTypeErrorCode        uint16 = 0x0009
	AttrTypeXorMappedAddress uint16 = 0x0020
	AttrTypeSoftware         uint16 = 0x8022

	attrTypeComprehensionOptional uint16 = 0x8000
)

const (
	addressFamilyIpv4 uint8 = 0x01
	addressFamilyIpv6 uint8 = 0x02
)
