// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/stun
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

// 版本信息相关
// 可执行文件中的版本信息使用naza.bininfo
// 本文件中的信息用于打入日志、协议中的SOFTWARE属性

// 版本，该变量由外部脚本修改维护
const StunVersion = "v0.1.0"

var (
	StunLibraryName = "stun"
	StunGithubRepo  = "github.com/q191201771/stun"

	// StunFullInfo e.g. stun v0.1.0 (github.com/q191201771/stun)
	//
	// 作为SOFTWARE属性的默认值
	//
	StunFullInfo = StunLibraryName + " " + StunVersion + " (" + StunGithubRepo + ")"
)
