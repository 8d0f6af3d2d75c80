// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/stun
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package stun

import (
	"github.com/q191201771/stun/pkg/base"
)

// Attribute 单个属性的TLV载荷编解码
//
// XOR类属性的载荷与所属消息的事务ID相关，所以Pack的入参带上了事务ID
type Attribute interface {
	TypeCode() uint16

	// Pack
	//
	// @return 属性的value部分，不含4字节TLV头，不含padding
	Pack(tid TransactionId) ([]byte, error)
}

// AttrUnpacker
//
// @param b 属性的value部分，已去除padding
type AttrUnpacker func(tid TransactionId, b []byte) (Attribute, error)

// 属性类型到解码函数的映射，init阶段构建完成，此后只读
//
// 支持新属性类型时在这里加一行
var attrUnpackers map[uint16]AttrUnpacker

func init() {
	attrUnpackers = map[uint16]AttrUnpacker{
		AttrTypeMappedAddress:    unpackMappedAddress,
		AttrTypeXorMappedAddress: unpackXorMappedAddress,
		AttrTypeErrorCode:        unpackErrorCode,
		AttrTypeSoftware:         unpackSoftware,
	}
}

// unpackAttribute
//
// 未注册的属性类型，comprehension-optional范围的解码为 UnknownAttribute 保留原始字节，
// comprehension-required范围的返回错误，由上层判定整条消息解码失败
func unpackAttribute(typ uint16, tid TransactionId, b []byte) (Attribute, error) {
	if unpacker, ok := attrUnpackers[typ]; ok {
		return unpacker(tid, b)
	}
	if typ < attrTypeComprehensionOptional {
		return nil, base.NewErrAttrMustUnderstand(typ)
	}
	payload := make([]byte, len(b))
	copy(payload, b)
	return UnknownAttribute{Typ: typ, Payload: payload}, nil
}

// ---------------------------------------------------------------------------------------------------------------------

// UnknownAttribute 未注册类型的兜底，保留原始类型和载荷，可无损地重新编码
type UnknownAttribute struct {
	Typ     uint16
	Payload []byte
}

func (a UnknownAttribute) TypeCode() uint16 {
	return a.Typ
}

func (a UnknownAttribute) Pack(tid TransactionId) ([]byte, error) {
	return a.Payload, nil
}
