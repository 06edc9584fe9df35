package auth

import (
	"hash/crc32"
	"sort"
	"strconv"
	"sync"
)

// HashRing 一致性哈希环，token 缓存按 token 映射到固定节点，
// 保证同一 token 的缓存 key 在多实例部署下稳定。
type HashRing struct {
	replicas int
	mu       sync.RWMutex
	hashes   []int          // 已排序的虚拟节点哈希
	nodes    map[int]string // 哈希 -> 节点
	members  map[string]struct{}
}

// NewHashRing 创建哈希环，nodes 为空时落到单个默认节点
func NewHashRing(nodes []string, replicas int) *HashRing {
	if replicas <= 0 {
		replicas = 50
	}
	if len(nodes) == 0 {
		nodes = []string{"auth-node-default"}
	}
	r := &HashRing{
		replicas: replicas,
		nodes:    make(map[int]string),
		members:  make(map[string]struct{}),
	}
	r.Add(nodes...)
	return r
}

// Add 批量添加节点，重复节点忽略
func (r *HashRing) Add(nodes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, node := range nodes {
		if _, ok := r.members[node]; ok {
			continue
		}
		r.members[node] = struct{}{}
		for i := 0; i < r.replicas; i++ {
			h := int(crc32.ChecksumIEEE([]byte(node + "#" + strconv.Itoa(i))))
			r.hashes = append(r.hashes, h)
			r.nodes[h] = node
		}
	}
	sort.Ints(r.hashes)
}

// Get 返回 key 落到的节点
func (r *HashRing) Get(key string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.hashes) == 0 {
		return ""
	}
	h := int(crc32.ChecksumIEEE([]byte(key)))
	idx := sort.Search(len(r.hashes), func(i int) bool { return r.hashes[i] >= h })
	if idx == len(r.hashes) {
		idx = 0
	}
	return r.nodes[r.hashes[idx]]
}
