// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/stun
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package stun_test

import (
	"errors"
	"testing"

	"github.com/q191201771/naza/pkg/assert"
	"github.com/q191201771/naza/pkg/bele"

	"github.com/q191201771/stun/pkg/base"
	"github.com/q191201771/stun/pkg/stun"
)

func prepareMessage(t *testing.T, attrs ...stun.Attribute) stun.Message {
	tid, err := stun.GenTransactionId()
	assert.Equal(t, nil, err)
	m := stun.NewMessage(stun.MethodBinding, stun.ClassRequest, attrs...)
	m.TransactionId = tid
	return m
}

func TestPackUnpack(t *testing.T) {
	m := prepareMessage(t,
		stun.MappedAddress{Ip: parseIpv4(t, "192.0.2.1"), Port: 32853},
		stun.XorMappedAddress{Ip: parseIpv4(t, "192.0.2.1"), Port: 32853},
		stun.NewErrorCode(stun.CodeBadRequest),
		stun.Software{Value: base.StunFullInfo},
		stun.UnknownAttribute{Typ: 0x8777, Payload: []byte{1, 2, 3, 4, 5}},
	)
	b, err := m.Pack()
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(b)%4)

	m2, err := stun.UnpackMessage(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, m, m2)
}

func TestPackUnpackAllClasses(t *testing.T) {
	for _, class := range []stun.Class{
		stun.ClassRequest, stun.ClassIndication, stun.ClassSuccessResponse, stun.ClassErrorResponse,
	} {
		m := prepareMessage(t)
		m.Class = class
		b, err := m.Pack()
		assert.Equal(t, nil, err)
		m2, err := stun.UnpackMessage(b)
		assert.Equal(t, nil, err)
		assert.Equal(t, class, m2.Class)
		assert.Equal(t, m.TransactionId, m2.TransactionId)
	}
}

func TestAttributeOrderPreserved(t *testing.T) {
	a1 := stun.Software{Value: "first"}
	a2 := stun.Software{Value: "second"}

	m := prepareMessage(t, a1, a2)
	b, err := m.Pack()
	assert.Equal(t, nil, err)
	m2, err := stun.UnpackMessage(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, []stun.Attribute{a1, a2}, m2.Attributes)

	m = prepareMessage(t, a2, a1)
	b, err = m.Pack()
	assert.Equal(t, nil, err)
	m2, err = stun.UnpackMessage(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, []stun.Attribute{a2, a1}, m2.Attributes)
}

func TestPackPadding(t *testing.T) {
	// value长度1~4，编码长度都应是4的倍数，且能无损往返
	for i := 1; i <= 4; i++ {
		m := prepareMessage(t, stun.Software{Value: "aaaa"[:i]})
		b, err := m.Pack()
		assert.Equal(t, nil, err)
		assert.Equal(t, 0, len(b)%4)
		assert.Equal(t, 20+4+(i+3)/4*4, len(b))
		m2, err := stun.UnpackMessage(b)
		assert.Equal(t, nil, err)
		assert.Equal(t, m, m2)
	}
}

func TestUnpackBadMagicCookie(t *testing.T) {
	m := prepareMessage(t)
	b, err := m.Pack()
	assert.Equal(t, nil, err)
	for _, i := range []int{4, 5, 6, 7} {
		bb := append([]byte{}, b...)
		bb[i] ^= 0xff
		_, err = stun.UnpackMessage(bb)
		assert.Equal(t, base.ErrMagicCookie, err)
	}
}

func TestUnpackTruncatedHeader(t *testing.T) {
	m := prepareMessage(t)
	b, err := m.Pack()
	assert.Equal(t, nil, err)
	for _, n := range []int{0, 1, 19} {
		_, err = stun.UnpackMessage(b[:n])
		assert.Equal(t, true, errors.Is(err, base.ErrShortBuffer))
	}
}

func TestUnpackLengthMismatch(t *testing.T) {
	m := prepareMessage(t, stun.Software{Value: "ab"})
	b, err := m.Pack()
	assert.Equal(t, nil, err)

	// 声明的属性区长度与实际剩余字节数不一致
	bb := append([]byte{}, b...)
	bele.BePutUint16(bb[2:], uint16(len(b)-20+4))
	_, err = stun.UnpackMessage(bb)
	assert.Equal(t, base.ErrLengthMismatch, err)

	// 属性区长度不是4的倍数（尾部字节被截掉）
	bb = append([]byte{}, b[:len(b)-1]...)
	bele.BePutUint16(bb[2:], uint16(len(bb)-20))
	_, err = stun.UnpackMessage(bb)
	assert.Equal(t, base.ErrAttrOverrun, err)
}

func TestUnpackAttrOverrun(t *testing.T) {
	m := prepareMessage(t, stun.Software{Value: "ab"})
	b, err := m.Pack()
	assert.Equal(t, nil, err)

	// 属性声明的长度超出消息边界
	bb := append([]byte{}, b...)
	bele.BePutUint16(bb[22:], 100)
	_, err = stun.UnpackMessage(bb)
	assert.Equal(t, base.ErrAttrOverrun, err)
}

func TestUnpackFirstTwoBits(t *testing.T) {
	m := prepareMessage(t)
	b, err := m.Pack()
	assert.Equal(t, nil, err)
	b[0] |= 0xc0
	_, err = stun.UnpackMessage(b)
	assert.Equal(t, base.ErrMessageType, err)
}

func TestPackOversizedAttribute(t *testing.T) {
	m := prepareMessage(t, stun.UnknownAttribute{Typ: 0x8777, Payload: make([]byte, 0x10000)})
	_, err := m.Pack()
	assert.Equal(t, base.ErrAttrTooLarge, err)
}

func TestUnknownAttribute(t *testing.T) {
	// comprehension-optional范围的未知属性不影响整条消息解码
	m := prepareMessage(t, stun.UnknownAttribute{Typ: 0x8777, Payload: []byte("opaque")})
	b, err := m.Pack()
	assert.Equal(t, nil, err)
	m2, err := stun.UnpackMessage(b)
	assert.Equal(t, nil, err)
	assert.Equal(t, m, m2)

	// comprehension-required范围的未知属性使整条消息解码失败
	m = prepareMessage(t, stun.UnknownAttribute{Typ: 0x7777, Payload: []byte("opaque")})
	b, err = m.Pack()
	assert.Equal(t, nil, err)
	_, err = stun.UnpackMessage(b)
	assert.Equal(t, true, errors.Is(err, base.ErrAttrMustUnderstand))
}

func TestUnpackTrailingGarbage(t *testing.T) {
	m := prepareMessage(t, stun.Software{Value: "ab"})
	b, err := m.Pack()
	assert.Equal(t, nil, err)

	// 尾部多出的字节使header长度与实际不符
	bb := append(append([]byte{}, b...), 0, 0, 0, 0)
	_, err = stun.UnpackMessage(bb)
	assert.Equal(t, base.ErrLengthMismatch, err)
}
