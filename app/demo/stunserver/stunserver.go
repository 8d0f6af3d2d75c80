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

	"github.com/q191201771/naza/pkg/bininfo"
	"github.com/q191201771/naza/pkg/nazalog"

	"github.com/q191201771/stun/pkg/base"
	"github.com/q191201771/stun/pkg/stun"
)

// STUN Binding server，应答来源地址的XOR-MAPPED-ADDRESS
//
// Usage:
// ./bin/stunserver -p 3478

func main() {
	defer nazalog.Sync()

	addr := parseFlag()

	srv, err := stun.NewServer(addr)
	if err != nil {
		nazalog.Fatalf("create server failed. addr=%s, err=%+v", addr, err)
	}
	srv.RegisterHandler(stun.MethodBinding, stun.BindingHandler)
	nazalog.Infof("[%s] stun server listening. addr=%s", srv.UniqueKey(), addr)
	err = srv.RunLoop()
	nazalog.Errorf("[%s] server loop done. err=%+v", srv.UniqueKey(), err)
}

func parseFlag() string {
	binInfoFlag := flag.Bool("v", false, "show bin info")
	p := flag.Int("p", stun.DefaultPort, "listen port")
	flag.Parse()
	if *binInfoFlag {
		_, _ = fmt.Fprint(os.Stderr, bininfo.StringifyMultiLine())
		_, _ = fmt.Fprintln(os.Stderr, base.StunFullInfo)
		os.Exit(0)
	}
	return fmt.Sprintf(":%d", *p)
}
