// Package interfaces
// @Title  title
// @Description  desc
// @Author  pc  2024/11/5
// @Update  pc  2024/11/5
package interfaces

type IEvent interface {
	GetId() string
	GetType() int32
	GetKey() string      // 路由key,相同key的事件由同一个worker按顺序处理
	GetDedupKey() string // 去重key,为空时不去重
	GetPriority() int32
	Done(result interface{}, err error) // 处理完成回调
	Release()
}
