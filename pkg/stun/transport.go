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

	"github.com/q191201771/naza/pkg/nazanet"
)

// IDatagramConnection 底层datagram传输的边界
//
// 与 nazanet.UdpConnection 的方法集保持一致，生产代码直接使用 nazanet.UdpConnection，
// 测试中可注入模拟丢包、模拟对端的实现
//
// 一个datagram即一次STUN消息解码尝试，边界之下不做任何分帧假设
type IDatagramConnection interface {
	// Write2Addr
	//
	// 发送一个datagram。多个事务并发发送时由实现方保证并发安全
	Write2Addr(b []byte, ruaddr *net.UDPAddr) error

	// RunLoop 阻塞直到Dispose或底层出错，每收到一个datagram回调一次onRead
	RunLoop(onRead nazanet.OnReadUdpPacket) error

	Dispose() error
}

// 编译期保证 nazanet.UdpConnection 实现了该接口
var _ IDatagramConnection = (*nazanet.UdpConnection)(nil)
