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

// rfc 5389 15.6
//
// 0                   1                   2                   3
// 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |           Reserved, should be 0         |Class|     Number    |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |      Reason Phrase (variable)                                ..
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//
// Figure 7: ERROR-CODE Attribute

// rfc 5389 15.6 定义的错误码
const (
	CodeTryAlternate     = 300
	CodeBadRequest       = 400
	CodeUnauthorized     = 401
	CodeUnknownAttribute = 420
	CodeStaleNonce       = 438
	CodeServerError      = 500
)

var codeReasons = map[int]string{
	CodeTryAlternate:     "Try Alternate",
	CodeBadRequest:       "Bad Request",
	CodeUnauthorized:     "Unauthorized",
	CodeUnknownAttribute: "Unknown Attribute",
	CodeStaleNonce:       "Stale Nonce",
	CodeServerError:      "Server Error",
}

// ErrorCode rfc 5389 15.6
//
// Code为完整错误码，比如420。编码时拆分为百位的class和两位数的number
type ErrorCode struct {
	Code   int
	Reason string
}

// NewErrorCode 使用rfc 5389 15.6中的默认reason phrase
func NewErrorCode(code int) ErrorCode {
	return ErrorCode{Code: code, Reason: codeReasons[code]}
}

func (a ErrorCode) TypeCode() uint16 {
	return AttrTypeErrorCode
}

func (a ErrorCode) Pack(tid TransactionId) ([]byte, error) {
	b := make([]byte, 4+len(a.Reason))
	b[2] = uint8(a.Code / 100)
	b[3] = uint8(a.Code % 100)
	copy(b[4:], a.Reason)
	return b, nil
}

func unpackErrorCode(tid TransactionId, b []byte) (Attribute, error) {
	if len(b) < 4 {
		return nil, base.NewErrShortBuffer(4, len(b), "ERROR-CODE attribute")
	}
	class := int(b[2] & 0x7)
	number := int(b[3])
	return ErrorCode{
		Code:   class*100 + number,
		Reason: string(b[4:]),
	}, nil
}
