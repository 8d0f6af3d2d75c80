// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/stun
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package stun

// Software rfc 5389 15.10
//
// utf-8文本，描述发送方的软件版本
type Software struct {
	Value string
}

func (a Software) TypeCode() uint16 {
	return AttrTypeSoftware
}

func (a Software) Pack(tid TransactionId) ([]byte, error) {
	return []byte(a.Value), nil
}

func unpackSoftware(tid TransactionId, b []byte) (Attribute, error) {
	return Software{Value: string(b)}, nil
}
