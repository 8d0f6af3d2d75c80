// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/stun
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/q191201771/naza/pkg/bininfo"
	"github.com/q191201771/naza/pkg/nazalog"

	"github.com/q191201771/stun/pkg/base"
	"github.com/q191201771/stun/pkg/stun"
)

// STUN查询客户端，向一个或多个server查询自身的外部地址
//
// Usage:
// ./bin/stunquery -s stun.l.google.com:19302
// ./bin/stunquery -s "stun.l.google.com:19302,stun.freeswitch.org" -t 1000

func main() {
	defer nazalog.Sync()

	addrs, timeoutMs := parseFlag()

	var wg sync.WaitGroup
	for _, addr := range addrs {
		wg.Add(1)
		go func(a string) {
			defer wg.Done()
			c, err := stun.NewClient(a)
			if err != nil {
				nazalog.Errorf("connect failed. server=%s, err=%+v", a, err)
				return
			}
			defer c.Dispose()
			ip, port, err := c.Query(timeoutMs)
			if err != nil {
				nazalog.Errorf("query failed. server=%s, err=%+v", a, err)
				return
			}
			nazalog.Infof("server=%s, mapped=%s:%d", a, ip, port)
		}(addr)
	}
	wg.Wait()
}

func parseFlag() (addrs []string, timeoutMs int) {
	binInfoFlag := flag.Bool("v", false, "show bin info")
	s := flag.String("s", "", "stun server addr, multiple splitted by ','")
	t := flag.Int("t", 3000, "query timeout in ms")
	flag.Parse()
	if *binInfoFlag {
		_, _ = fmt.Fprint(os.Stderr, bininfo.StringifyMultiLine())
		_, _ = fmt.Fprintln(os.Stderr, base.StunFullInfo)
		os.Exit(0)
	}
	if *s == "" {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `
Example:
  ./bin/stunquery -s stun.l.google.com:19302
  ./bin/stunquery -s "stun.l.google.com:19302,stun.freeswitch.org" -t 1000
`)
		os.Exit(1)
	}
	return strings.Split(*s, ","), *t
}
