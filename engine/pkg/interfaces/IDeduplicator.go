// Package interfaces
// 模块名: 去重
// 功能描述: 识别重复投递的事件
// 作者:  yr  2025/8/6 0006 0:53
// 最后更新:  yr  2026/10/17
package interfaces

type IDeDuplicator interface {
	Seen(owner string, key string) bool
	MarkDone(owner string, key string)
}
