// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/stun
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package stun_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/q191201771/naza/pkg/assert"

	"github.com/q191201771/stun/pkg/stun"
)

// 环回地址上的端到端：client发Binding请求，server应答来源地址的XOR-MAPPED-ADDRESS
func TestBindingOverLoopback(t *testing.T) {
	srv, err := stun.NewServer(":16023")
	assert.Equal(t, nil, err)
	srv.RegisterHandler(stun.MethodBinding, stun.BindingHandler)
	go func() {
		_ = srv.RunLoop()
	}()

	// client绑定固定端口，这样才能断言应答中的地址属性
	c, err := stun.NewClient("127.0.0.1:16023", func(option *stun.ClientOption) {
		option.LAddr = "127.0.0.1:61991"
	})
	assert.Equal(t, nil, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	resp, err := c.Call(ctx, stun.NewMessage(stun.MethodBinding, stun.ClassRequest))
	assert.Equal(t, nil, err)
	assert.Equal(t, stun.ClassSuccessResponse, resp.Class)
	attr, ok := resp.FindAttribute(stun.AttrTypeXorMappedAddress)
	assert.Equal(t, true, ok)
	xma := attr.(stun.XorMappedAddress)
	assert.Equal(t, "127.0.0.1", xma.Ip.String())
	assert.Equal(t, uint16(61991), xma.Port)

	ip, port, err := c.Query(1000)
	assert.Equal(t, nil, err)
	assert.Equal(t, "127.0.0.1", ip)
	assert.Equal(t, 61991, port)

	_ = c.Dispose()
	_ = srv.Dispose()
}

// 未注册方法的请求应得到ErrorResponse应答，对端事务立即终止而不是超时
func TestMethodNotImplementedOverLoopback(t *testing.T) {
	srv, err := stun.NewServer(":16024")
	assert.Equal(t, nil, err)
	srv.RegisterHandler(stun.MethodBinding, stun.BindingHandler)
	go func() {
		_ = srv.RunLoop()
	}()

	c, err := stun.NewClient("127.0.0.1:16024")
	assert.Equal(t, nil, err)

	begin := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	resp, err := c.Call(ctx, stun.NewMessage(stun.Method(0x00a), stun.ClassRequest))
	assert.Equal(t, nil, err)
	assert.Equal(t, stun.ClassErrorResponse, resp.Class)
	attr, ok := resp.FindAttribute(stun.AttrTypeErrorCode)
	assert.Equal(t, true, ok)
	assert.Equal(t, stun.CodeServerError, attr.(stun.ErrorCode).Code)
	// 远小于首个重传间隔，说明不是靠超时结束的
	assert.Equal(t, true, time.Since(begin) < 500*time.Millisecond)

	_ = c.Dispose()
	_ = srv.Dispose()
}

// Indication不建立事务，server侧回调收到即可，不产生应答
func TestIndicationOverLoopback(t *testing.T) {
	srv, err := stun.NewServer(":16025")
	assert.Equal(t, nil, err)
	indCh := make(chan stun.Message, 1)
	srv.SetOnIndication(func(raddr *net.UDPAddr, ind stun.Message) {
		indCh <- ind
	})
	go func() {
		_ = srv.RunLoop()
	}()

	c, err := stun.NewClient("127.0.0.1:16025")
	assert.Equal(t, nil, err)
	err = c.Cast(stun.NewMessage(stun.MethodBinding, stun.ClassIndication, stun.Software{Value: "cast"}))
	assert.Equal(t, nil, err)

	select {
	case ind := <-indCh:
		assert.Equal(t, stun.ClassIndication, ind.Class)
		attr, ok := ind.FindAttribute(stun.AttrTypeSoftware)
		assert.Equal(t, true, ok)
		assert.Equal(t, "cast", attr.(stun.Software).Value)
	case <-time.After(3 * time.Second):
		t.Fatal("indication not received")
	}

	_ = c.Dispose()
	_ = srv.Dispose()
}
