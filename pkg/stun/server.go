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

	"github.com/q191201771/naza/pkg/nazaatomic"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazanet"

	"github.com/q191201771/stun/pkg/base"
)

// Handler 业务方按方法注册的请求处理逻辑
//
// 返回的应答消息类别应为SuccessResponse或ErrorResponse，事务ID由分发器填回请求的事务ID；
// 返回错误时分发器代为应答500
type Handler func(raddr *net.UDPAddr, req Message) (Message, error)

// OnIndication Indication类消息的可选回调，不注册时丢弃
type OnIndication func(raddr *net.UDPAddr, ind Message)

type ServerOption struct {
	Software string // 服务端在自身合成的应答中附带的SOFTWARE属性，空字符串则不附带

	// Connection 不为nil时直接使用，此时NewServer的addr参数无效。供测试注入
	Connection IDatagramConnection
}

var defaultServerOption = ServerOption{
	Software: base.StunFullInfo,
}

type ModServerOption func(option *ServerOption)

// Server 无状态的按datagram分发：解码，按方法路由到handler，编码应答发回来源地址
//
// 解码失败的输入静默丢弃（不应答，避免被用作放大攻击），方法未注册时应答ErrorResponse，
// 使对端事务立即终止而不是等到超时
type Server struct {
	uniqueKey string
	option    ServerOption
	conn      IDatagramConnection

	// RunLoop之前注册完毕，运行期只读
	handlers     map[Method]Handler
	onIndication OnIndication

	undecodableCount nazaatomic.Uint32
}

func NewServer(addr string, modOptions ...ModServerOption) (*Server, error) {
	option := defaultServerOption
	for _, fn := range modOptions {
		fn(&option)
	}
	conn := option.Connection
	if conn == nil {
		var err error
		conn, err = nazanet.NewUdpConnection(func(o *nazanet.UdpConnectionOption) {
			o.LAddr = addr
		})
		if err != nil {
			return nil, nazaerrors.Wrap(err)
		}
	}
	return &Server{
		uniqueKey: base.GenUkServer(),
		option:    option,
		conn:      conn,
		handlers:  make(map[Method]Handler),
	}, nil
}

// RegisterHandler 按方法注册，需在RunLoop之前调用
func (s *Server) RegisterHandler(method Method, handler Handler) {
	s.handlers[method] = handler
}

func (s *Server) SetOnIndication(onIndication OnIndication) {
	s.onIndication = onIndication
}

// RunLoop 阻塞直到Dispose或底层出错
func (s *Server) RunLoop() error {
	return s.conn.RunLoop(s.onReadUdpPacket)
}

func (s *Server) Dispose() error {
	return s.conn.Dispose()
}

// UndecodableCount 观测用。收到但解码失败被丢弃的datagram个数
func (s *Server) UndecodableCount() uint32 {
	return s.undecodableCount.Load()
}

func (s *Server) UniqueKey() string {
	return s.uniqueKey
}

// BindingHandler Binding方法的默认实现，应答来源地址的XOR-MAPPED-ADDRESS
func BindingHandler(raddr *net.UDPAddr, req Message) (Message, error) {
	return BuildResponse(req, ClassSuccessResponse, XorMappedAddress{
		Ip:   raddr.IP,
		Port: uint16(raddr.Port),
	}), nil
}

// ---------------------------------------------------------------------------------------------------------------------

func (s *Server) onReadUdpPacket(b []byte, raddr *net.UDPAddr, err error) bool {
	if err != nil {
		return false
	}
	req, err := UnpackMessage(b)
	if err != nil {
		s.undecodableCount.Increment()
		Log.Warnf("[%s] drop undecodable datagram. raddr=%s, len=%d, err=%+v", s.uniqueKey, raddr, len(b), err)
		return true
	}

	switch req.Class {
	case ClassRequest:
		s.dispatch(raddr, req)
	case ClassIndication:
		if s.onIndication != nil {
			s.onIndication(raddr, req)
		}
	default:
		// server只应答请求，应答类消息丢弃
		Log.Debugf("[%s] drop non-request message. raddr=%s, class=%s", s.uniqueKey, raddr, req.Class)
	}
	return true
}

func (s *Server) dispatch(raddr *net.UDPAddr, req Message) {
	var resp Message
	handler, ok := s.handlers[req.Method]
	if !ok {
		Log.Warnf("[%s] method not implemented. raddr=%s, method=%s", s.uniqueKey, raddr, req.Method)
		resp = s.buildErrorResponse(req, ErrorCode{Code: CodeServerError, Reason: "Method Not Implemented"})
	} else {
		var err error
		resp, err = handler(raddr, req)
		if err != nil {
			Log.Errorf("[%s] handler failed. raddr=%s, method=%s, err=%+v", s.uniqueKey, raddr, req.Method, err)
			resp = s.buildErrorResponse(req, NewErrorCode(CodeServerError))
		}
	}

	bResp, err := resp.Pack()
	if err != nil {
		Log.Errorf("[%s] pack response failed. raddr=%s, err=%+v", s.uniqueKey, raddr, err)
		return
	}
	if err := s.conn.Write2Addr(bResp, raddr); err != nil {
		Log.Errorf("[%s] write response failed. raddr=%s, err=%+v", s.uniqueKey, raddr, err)
	}
}

func (s *Server) buildErrorResponse(req Message, ec ErrorCode) Message {
	attrs := []Attribute{ec}
	if s.option.Software != "" {
		attrs = append(attrs, Software{Value: s.option.Software})
	}
	return BuildResponse(req, ClassErrorResponse, attrs...)
}
