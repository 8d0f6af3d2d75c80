// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/stun
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package stun

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/q191201771/naza/pkg/nazaatomic"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazanet"

	"github.com/q191201771/stun/pkg/base"
)

// ClientOption
//
// 重传参数默认值取自rfc 5389 7.2.1：初始RTO 500ms，每次重传翻倍，
// 最多重传7次，最后一次发送后再等RmFactor倍初始RTO
type ClientOption struct {
	LAddr           string // 本地绑定地址，默认随机端口
	RtoMs           int    // 初始重传超时，毫秒
	RetransmitCount int    // 重传次数上限，不含首次发送
	RmFactor        int    // 最后一次发送后的等待时间为RmFactor*RtoMs

	// Connection 不为nil时直接使用，此时LAddr无效。供测试注入模拟传输
	Connection IDatagramConnection
}

var defaultClientOption = ClientOption{
	LAddr:           ":0",
	RtoMs:           500,
	RetransmitCount: 7,
	RmFactor:        16,
}

type ModClientOption func(option *ClientOption)

// Client STUN客户端，单server地址，多事务并发复用一个socket
//
// 一条Call对应一个事务：生成事务ID，编码发送，按退避策略重传，
// 匹配应答后恰好完成一次。收包循环在内部goroutine中运行
type Client struct {
	uniqueKey string
	option    ClientOption
	raddr     *net.UDPAddr
	conn      IDatagramConnection

	mu       sync.Mutex
	pendings map[TransactionId]*pendingTransaction
	disposed bool

	disposeOnce sync.Once

	undecodableCount nazaatomic.Uint32 // 解码失败被丢弃的datagram个数
	unmatchedCount   nazaatomic.Uint32 // 无对应事务被丢弃的应答个数
}

// pendingTransaction 表项由 Client.mu 保护，先从表中摘除再投递结果，保证恰好完成一次
type pendingTransaction struct {
	id       TransactionId
	resultCh chan callResult // 容量1，最多写入一次
}

type callResult struct {
	msg Message
	err error
}

// NewClient
//
// @param serverAddr 不含端口时使用默认端口3478
func NewClient(serverAddr string, modOptions ...ModClientOption) (*Client, error) {
	option := defaultClientOption
	for _, fn := range modOptions {
		fn(&option)
	}

	if !strings.Contains(serverAddr, ":") {
		serverAddr = fmt.Sprintf("%s:%d", serverAddr, DefaultPort)
	}
	raddr, err := net.ResolveUDPAddr("udp", serverAddr)
	if err != nil {
		return nil, nazaerrors.Wrap(err)
	}

	conn := option.Connection
	if conn == nil {
		conn, err = nazanet.NewUdpConnection(func(o *nazanet.UdpConnectionOption) {
			o.LAddr = option.LAddr
		})
		if err != nil {
			return nil, nazaerrors.Wrap(err)
		}
	}

	c := &Client{
		uniqueKey: base.GenUkClient(),
		option:    option,
		raddr:     raddr,
		conn:      conn,
		pendings:  make(map[TransactionId]*pendingTransaction),
	}
	go func() {
		err := c.conn.RunLoop(c.onReadUdpPacket)
		Log.Debugf("[%s] read loop done. err=%+v", c.uniqueKey, err)
	}()
	return c, nil
}

// Call 发送请求并阻塞等待本事务的唯一结果
//
// 返回的应答消息类别为SuccessResponse或ErrorResponse，由调用方检查Class区分；
// 超时返回 base.ErrTimeout ，ctx取消返回ctx的错误，发送失败返回传输错误
//
// req中的事务ID由Call生成并覆盖，与当前未完成事务冲突时重新生成
func (c *Client) Call(ctx context.Context, req Message) (Message, error) {
	t, b, err := c.register(req)
	if err != nil {
		return Message{}, err
	}
	defer c.unregister(t.id)

	begin := Clock.Now()
	rto := time.Duration(c.option.RtoMs) * time.Millisecond
	for i := 0; ; i++ {
		if err := c.conn.Write2Addr(b, c.raddr); err != nil {
			return Message{}, nazaerrors.Wrap(err)
		}
		wait := rto
		if i == c.option.RetransmitCount {
			// 最后一次发送，等待Rm倍初始RTO后放弃
			wait = time.Duration(c.option.RmFactor*c.option.RtoMs) * time.Millisecond
		}
		timer := time.NewTimer(wait)
		select {
		case result := <-t.resultCh:
			timer.Stop()
			return result.msg, result.err
		case <-ctx.Done():
			timer.Stop()
			return Message{}, ctx.Err()
		case <-timer.C:
			if i == c.option.RetransmitCount {
				Log.Debugf("[%s] transaction timed out. tid=%x, retransmit=%d, elapsed=%v",
					c.uniqueKey, t.id, i, Clock.Now().Sub(begin))
				return Message{}, base.ErrTimeout
			}
			rto *= 2
		}
	}
}

// Cast 发送Indication，不建立事务，不期待应答
func (c *Client) Cast(ind Message) error {
	tid, err := GenTransactionId()
	if err != nil {
		return nazaerrors.Wrap(err)
	}
	ind.TransactionId = tid
	b, err := ind.Pack()
	if err != nil {
		return err
	}
	return c.conn.Write2Addr(b, c.raddr)
}

// Query 发送Binding请求，返回server观测到的本端外部地址
func (c *Client) Query(timeoutMs int) (ip string, port int, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()
	resp, err := c.Call(ctx, NewMessage(MethodBinding, ClassRequest))
	if err != nil {
		return "", 0, err
	}
	if resp.Class == ClassErrorResponse {
		if attr, ok := resp.FindAttribute(AttrTypeErrorCode); ok {
			ec := attr.(ErrorCode)
			return "", 0, fmt.Errorf("%w. code=%d, reason=%s", base.ErrErrorResponse, ec.Code, ec.Reason)
		}
		return "", 0, base.ErrErrorResponse
	}
	return resp.MappedAddr()
}

// UndecodableCount 观测用。收到但解码失败的datagram个数
func (c *Client) UndecodableCount() uint32 {
	return c.undecodableCount.Load()
}

// UnmatchedCount 观测用。解码成功但无对应未完成事务的应答个数
func (c *Client) UnmatchedCount() uint32 {
	return c.unmatchedCount.Load()
}

func (c *Client) UniqueKey() string {
	return c.uniqueKey
}

// Dispose 关闭socket，所有未完成的Call立即以 base.ErrClientDisposed 返回
func (c *Client) Dispose() error {
	var err error
	c.disposeOnce.Do(func() {
		err = c.conn.Dispose()

		c.mu.Lock()
		c.disposed = true
		for id, t := range c.pendings {
			delete(c.pendings, id)
			t.resultCh <- callResult{err: base.ErrClientDisposed}
		}
		c.mu.Unlock()
	})
	return err
}

// ---------------------------------------------------------------------------------------------------------------------

func (c *Client) register(req Message) (*pendingTransaction, []byte, error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil, nil, base.ErrClientDisposed
	}
	var tid TransactionId
	for {
		var err error
		tid, err = GenTransactionId()
		if err != nil {
			c.mu.Unlock()
			return nil, nil, nazaerrors.Wrap(err)
		}
		// 与未完成事务撞ID的概率可以忽略，但相关性不变式必须保住
		if _, exist := c.pendings[tid]; !exist {
			break
		}
	}
	t := &pendingTransaction{
		id:       tid,
		resultCh: make(chan callResult, 1),
	}
	c.pendings[tid] = t
	c.mu.Unlock()

	req.TransactionId = tid
	b, err := req.Pack()
	if err != nil {
		c.unregister(tid)
		return nil, nil, err
	}
	return t, b, nil
}

func (c *Client) unregister(tid TransactionId) {
	c.mu.Lock()
	delete(c.pendings, tid)
	c.mu.Unlock()
}

func (c *Client) onReadUdpPacket(b []byte, raddr *net.UDPAddr, err error) bool {
	if err != nil {
		return false
	}
	msg, err := UnpackMessage(b)
	if err != nil {
		// 解码失败的datagram无法可靠归属到某个事务，丢弃并计数
		c.undecodableCount.Increment()
		Log.Warnf("[%s] drop undecodable datagram. raddr=%s, len=%d, err=%+v", c.uniqueKey, raddr, len(b), err)
		return true
	}
	if !msg.Class.IsResponse() {
		// 客户端收到Request或Indication不构成事务完成
		Log.Debugf("[%s] drop non-response message. class=%s, method=%s", c.uniqueKey, msg.Class, msg.Method)
		return true
	}

	c.mu.Lock()
	t, ok := c.pendings[msg.TransactionId]
	if ok {
		delete(c.pendings, msg.TransactionId)
	}
	c.mu.Unlock()
	if !ok {
		// 无匹配事务。可能是迟到的重复应答，也可能事务已取消
		c.unmatchedCount.Increment()
		return true
	}
	t.resultCh <- callResult{msg: msg}
	return true
}
