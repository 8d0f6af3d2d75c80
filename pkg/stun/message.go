// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/stun
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package stun

import (
	"crypto/rand"

	"github.com/q191201771/naza/pkg/bele"

	"github.com/q191201771/stun/pkg/base"
)

const transactionIdSize = 12

// TransactionId 96bit事务ID，随机生成，用于匹配请求与应答，也是XOR类属性的掩码材料
type TransactionId [transactionIdSize]byte

func GenTransactionId() (tid TransactionId, err error) {
	_, err = rand.Read(tid[:])
	return
}

// Message 一条完整的STUN消息
//
// Attributes保持调用方传入的顺序编码上线，解码时也保持线上顺序，
// 这是为了将来支持MESSAGE-INTEGRITY这类对前序字节做摘要的属性
type Message struct {
	Method        Method
	Class         Class
	TransactionId TransactionId
	Attributes    []Attribute
}

// NewMessage
//
// 事务ID留空即可，客户端的 Client.Call 和 Client.Cast 发送前会生成并填入
func NewMessage(method Method, class Class, attrs ...Attribute) Message {
	return Message{
		Method:     method,
		Class:      class,
		Attributes: attrs,
	}
}

// BuildResponse 构造与请求同事务ID的应答
func BuildResponse(req Message, class Class, attrs ...Attribute) Message {
	return Message{
		Method:        req.Method,
		Class:         class,
		TransactionId: req.TransactionId,
		Attributes:    attrs,
	}
}

// FindAttribute 取第一个指定类型的属性
func (m Message) FindAttribute(typ uint16) (Attribute, bool) {
	for _, attr := range m.Attributes {
		if attr.TypeCode() == typ {
			return attr, true
		}
	}
	return nil, false
}

// MappedAddr 从应答中取外部可见地址，优先XOR-MAPPED-ADDRESS
func (m Message) MappedAddr() (ip string, port int, err error) {
	if attr, ok := m.FindAttribute(AttrTypeXorMappedAddress); ok {
		a := attr.(XorMappedAddress)
		return a.Ip.String(), int(a.Port), nil
	}
	if attr, ok := m.FindAttribute(AttrTypeMappedAddress); ok {
		a := attr.(MappedAddress)
		return a.Ip.String(), int(a.Port), nil
	}
	return "", 0, base.ErrNoAddressInResp
}

// ---------------------------------------------------------------------------------------------------------------------

// Pack
//
// 编码整条消息。属性的value按4字节对齐补零。
// 整条消息的编码长度必然是4的倍数。
//
// 属性载荷超出16bit长度字段时返回错误，不panic
func (m Message) Pack() ([]byte, error) {
	body := make([]byte, 0, 64)
	for _, attr := range m.Attributes {
		value, err := attr.Pack(m.TransactionId)
		if err != nil {
			return nil, err
		}
		if len(value) > 0xffff {
			return nil, base.ErrAttrTooLarge
		}
		var tl [4]byte
		bele.BePutUint16(tl[:], attr.TypeCode())
		bele.BePutUint16(tl[2:], uint16(len(value)))
		body = append(body, tl[:]...)
		body = append(body, value...)
		if pad := len(value) % 4; pad != 0 {
			body = append(body, make([]byte, 4-pad)...)
		}
	}
	if len(body) > 0xffff {
		return nil, base.ErrMessageTooLarge
	}

	b := make([]byte, headerSize+len(body))
	bele.BePutUint16(b, packMessageType(m.Method, m.Class))
	bele.BePutUint16(b[2:], uint16(len(body)))
	bele.BePutUint32(b[4:], magicCookie)
	copy(b[8:], m.TransactionId[:])
	copy(b[headerSize:], body)
	return b, nil
}

// UnpackMessage
//
// 解码一个datagram。校验项：
// - 总长度不小于20字节头
// - magic cookie逐字节相等
// - 头中声明的属性区长度与实际剩余字节数相等
// - 每个属性的长度（加padding后）不越界，属性流恰好消费完，无尾部剩余
//
// padding字节只消费不校验内容（宽松解析）
func UnpackMessage(b []byte) (m Message, err error) {
	if len(b) < headerSize {
		return m, base.NewErrShortBuffer(headerSize, len(b), "message header")
	}
	if bele.BeUint32(b[4:]) != magicCookie {
		return m, base.ErrMagicCookie
	}
	mt := bele.BeUint16(b)
	if mt&0xc000 != 0 {
		// 最高2bit必须为0
		return m, base.ErrMessageType
	}
	length := int(bele.BeUint16(b[2:]))
	if len(b)-headerSize != length {
		return m, base.ErrLengthMismatch
	}

	m.Method, m.Class = unpackMessageType(mt)
	copy(m.TransactionId[:], b[8:])

	pos := headerSize
	for pos < len(b) {
		if len(b)-pos < 4 {
			return Message{}, base.ErrAttrOverrun
		}
		at := bele.BeUint16(b[pos:])
		al := int(bele.BeUint16(b[pos+2:]))
		pos += 4
		padded := (al + 3) &^ 3
		if len(b)-pos < padded {
			return Message{}, base.ErrAttrOverrun
		}
		attr, err := unpackAttribute(at, m.TransactionId, b[pos:pos+al])
		if err != nil {
			return Message{}, err
		}
		m.Attributes = append(m.Attributes, attr)
		pos += padded
	}
	return m, nil
}
