// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/stun
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import "github.com/q191201771/naza/pkg/unique"

const (
	UkPreClient = "STUNCLIENT"
	UkPreServer = "STUNSERVER"
)

func GenUkClient() string {
	return siUkClient.GenUniqueKey()
}

func GenUkServer() string {
	return siUkServer.GenUniqueKey()
}

var (
	siUkClient *unique.SingleGenerator
	siUkServer *unique.SingleGenerator
)

func init() {
	siUkClient = unique.NewSingleGenerator(UkPreClient)
	siUkServer = unique.NewSingleGenerator(UkPreServer)
}
