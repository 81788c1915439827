// Package hashring
// @Title  哈希环
// @Description  按事件key把事件分配到固定的worker,同一个key的事件保持顺序
// @Author  yr  2025/4/18
// @Update  yr  2026/10/17
package hashring

import (
	"cmp"
	"slices"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const hashSalt = "ember_salt_key_y_w"

type vnode[T comparable] struct {
	hash  uint64
	owner T
}

func hashKey(key string) uint64 {
	if key == "" {
		return 1
	}
	return xxhash.Sum64String(key)
}

// HashRing 带虚拟节点的一致性哈希环,节点用名字参与哈希
type HashRing[T comparable] struct {
	mu       sync.RWMutex
	nodes    []vnode[T] // 按hash排序
	replicas int
}

func NewHashRing[T comparable](replicas int) *HashRing[T] {
	if replicas <= 0 {
		replicas = 1
	}
	return &HashRing[T]{replicas: replicas}
}

// Add 添加节点,name用于生成虚拟节点
func (h *HashRing[T]) Add(name string, owner T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := 0; i < h.replicas; i++ {
		hash := hashKey(hashSalt + "-" + name + "-" + strconv.Itoa(i))
		h.nodes = append(h.nodes, vnode[T]{hash: hash, owner: owner})
	}
	slices.SortFunc(h.nodes, func(a, b vnode[T]) int {
		return cmp.Compare(a.hash, b.hash)
	})
}

// Remove 移除节点的所有虚拟节点
func (h *HashRing[T]) Remove(owner T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nodes = slices.DeleteFunc(h.nodes, func(n vnode[T]) bool {
		return n.owner == owner
	})
}

func (h *HashRing[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.nodes) / h.replicas
}

// Get 找到第一个hash >= key哈希的虚拟节点,越过末尾时回到环首
func (h *HashRing[T]) Get(key string) (T, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var zero T
	if len(h.nodes) == 0 {
		return zero, false
	}
	hash := hashKey(key)
	idx, _ := slices.BinarySearchFunc(h.nodes, hash, func(n vnode[T], target uint64) int {
		return cmp.Compare(n.hash, target)
	})
	if idx == len(h.nodes) {
		idx = 0
	}
	return h.nodes[idx].owner, true
}

func (h *HashRing[T]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nodes = nil
}
