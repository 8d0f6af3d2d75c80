// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/stun
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"errors"
	"fmt"
)

// ----- 通用的 ---------------------------------------------------------------------------------------------------------

var ErrShortBuffer = errors.New("stun: buffer too short")

func NewErrShortBuffer(need, actual int, msg string) error {
	return fmt.Errorf("%w. need=%d, actual=%d, msg=%s", ErrShortBuffer, need, actual, msg)
}

// ----- pkg/stun 消息编解码 --------------------------------------------------------------------------------------------

var (
	ErrMagicCookie     = errors.New("stun: bad magic cookie")
	ErrMessageType     = errors.New("stun: first two bits of message type not zero")
	ErrLengthMismatch  = errors.New("stun: header length field mismatches body")
	ErrAttrOverrun     = errors.New("stun: attribute length overruns message bounds")
	ErrAttrTooLarge    = errors.New("stun: attribute payload exceeds 16-bit length field")
	ErrMessageTooLarge = errors.New("stun: attribute section exceeds 16-bit length field")

	ErrAttrShortPayload   = errors.New("stun: attribute payload too short")
	ErrAttrFamily         = errors.New("stun: invalid address family")
	ErrAttrMustUnderstand = errors.New("stun: unhandled comprehension-required attribute")

	ErrUnknownMethod = errors.New("stun: method not registered")
)

func NewErrAttrFamily(family uint8) error {
	return fmt.Errorf("%w. family=%d", ErrAttrFamily, family)
}

func NewErrAttrMustUnderstand(typ uint16) error {
	return fmt.Errorf("%w. type=0x%04x", ErrAttrMustUnderstand, typ)
}

// ----- pkg/stun 客户端事务 --------------------------------------------------------------------------------------------

var (
	ErrTimeout         = errors.New("stun: transaction timed out")
	ErrErrorResponse   = errors.New("stun: server replied error response")
	ErrClientDisposed  = errors.New("stun: client disposed")
	ErrNoAddressInResp = errors.New("stun: response carries no address attribute")
)

// ----- pkg/stun 服务端 ------------------------------------------------------------------------------------------------

var ErrHandlerNotFound = errors.New("stun: no handler registered for method")

// ---------------------------------------------------------------------------------------------------------------------
