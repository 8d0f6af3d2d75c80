// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/stun
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package stun

import (
	"fmt"

	"github.com/q191201771/stun/pkg/base"
)

// Method 14bit方法号
//
// 方法是开放集合，未注册的方法号保持数值形态流转，不影响消息编解码
type Method uint16

// Class 2bit消息类别，闭合集合
type Class uint8

const (
	MethodBinding Method = 0x0001
)

const (
	ClassRequest         Class = 0x0
	ClassIndication      Class = 0x1
	ClassSuccessResponse Class = 0x2
	ClassErrorResponse   Class = 0x3
)

// 进程启动时构建完成，此后只读
var methodNames = map[Method]string{
	MethodBinding: "Binding",
}

var classNames = map[Class]string{
	ClassRequest:         "Request",
	ClassIndication:      "Indication",
	ClassSuccessResponse: "SuccessResponse",
	ClassErrorResponse:   "ErrorResponse",
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(0x%03x)", uint16(m))
}

func (c Class) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	// Class只有2bit，不会走到这里
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// RegisteredMethod 按方法号查注册表
//
// 未注册的方法号返回 base.ErrUnknownMethod ，由调用方决定是按错误处理，
// 还是将方法号当作不透明数值继续流转（消息编解码走的是后者）
func RegisteredMethod(code uint16) (Method, error) {
	m := Method(code)
	if _, ok := methodNames[m]; !ok {
		return m, base.ErrUnknownMethod
	}
	return m, nil
}

// IsResponse 事务应答只会是这两类
func (c Class) IsResponse() bool {
	return c == ClassSuccessResponse || c == ClassErrorResponse
}

// ---------------------------------------------------------------------------------------------------------------------
// 方法与类别在16bit消息类型字段中交错排布，见rfc 5389 6.
//
//  0                 1
//  2  3  4 5 6 7 8 9 0 1 2 3 4 5
// +--+--+-+-+-+-+-+-+-+-+-+-+-+-+
// |M |M |M|M|M|C|M|M|M|C|M|M|M|M|
// |11|10|9|8|7|1|6|5|4|0|3|2|1|0|
// +--+--+-+-+-+-+-+-+-+-+-+-+-+-+
//
// Figure 3: Format of STUN Message Type Field
//
// 固定位运算，不走查表
// ---------------------------------------------------------------------------------------------------------------------

func packMessageType(m Method, c Class) uint16 {
	mm := uint16(m)
	cc := uint16(c)
	return (mm&0x0f80)<<2 | (mm&0x0070)<<1 | (mm & 0x000f) |
		(cc&0x2)<<7 | (cc&0x1)<<4
}

func unpackMessageType(mt uint16) (Method, Class) {
	m := (mt&0x3e00)>>2 | (mt&0x00e0)>>1 | (mt & 0x000f)
	c := (mt&0x0100)>>7 | (mt&0x0010)>>4
	return Method(m), Class(c)
}
