// Package dedup
// @Title  去重
// @Description  以(owner,key)识别重复投递的事件
// @Author  yr  2025/8/6
// @Update  yr  2026/10/17
package dedup

import (
	"time"

	"github.com/njtc406/emberqueue/engine/pkg/def"
	inf "github.com/njtc406/emberqueue/engine/pkg/interfaces"
	"github.com/patrickmn/go-cache"
)

type Option func(d *TTLDeDuplicator)

func WithTTL(ttl time.Duration) Option {
	return func(d *TTLDeDuplicator) {
		d.ttl = ttl
	}
}

func WithCleanTTL(ttl time.Duration) Option {
	return func(d *TTLDeDuplicator) {
		d.cleanTTL = ttl
	}
}

func dedupKey(owner, key string) string {
	return owner + "/" + key
}

// TTLDeDuplicator 记录在ttl内见过的key,过期后允许再次投递
type TTLDeDuplicator struct {
	ttl      time.Duration
	cleanTTL time.Duration
	seen     *cache.Cache
}

var _ inf.IDeDuplicator = (*TTLDeDuplicator)(nil)

func NewTTLDeDuplicator(options ...Option) *TTLDeDuplicator {
	d := &TTLDeDuplicator{}
	for _, op := range options {
		op(d)
	}
	if d.ttl <= 0 {
		d.ttl = def.DefaultDeDuplicatorTTL
	}
	if d.cleanTTL <= 0 {
		d.cleanTTL = d.ttl * 3
	}
	d.seen = cache.New(d.ttl, d.cleanTTL)
	return d
}

// Seen 判断是否已经见过,没见过时立即插入标记
// Add在key存在时失败,所以并发的两次Seen只有一个返回false
func (d *TTLDeDuplicator) Seen(owner string, key string) bool {
	return d.seen.Add(dedupKey(owner, key), struct{}{}, cache.DefaultExpiration) != nil
}

// MarkDone 处理完成后删除标记,同一个key可以再次投递
func (d *TTLDeDuplicator) MarkDone(owner string, key string) {
	d.seen.Delete(dedupKey(owner, key))
}

func (d *TTLDeDuplicator) Len() int {
	return d.seen.ItemCount()
}
