package tree

// Config 树构建配置，T一般为指针类型
type Config[T any, K comparable] struct {
	ID       func(T) K
	ParentID func(T) K
	IsRoot   func(T) bool          // 可选，默认父ID为K零值视为根节点
	AddChild func(parent, child T) // 把child挂到parent的子节点序列
}

// Build 把平铺列表按父ID连接成森林
//
// 两次遍历：先建索引再连接，O(n)时间与空间，兄弟节点保持输入顺序。
// 父ID指向不存在节点的项不会进入结果（其子节点仍会挂到它下面）。
func Build[T any, K comparable](list []T, cfg Config[T, K]) []T {
	idMap := make(map[K]T, len(list))
	for _, item := range list {
		idMap[cfg.ID(item)] = item
	}

	isRoot := cfg.IsRoot
	if isRoot == nil {
		var zero K
		isRoot = func(item T) bool {
			return cfg.ParentID(item) == zero
		}
	}

	result := make([]T, 0)
	for _, item := range list {
		if isRoot(item) {
			result = append(result, item)
			continue
		}
		if parent, ok := idMap[cfg.ParentID(item)]; ok {
			cfg.AddChild(parent, item)
		}
	}

	return result
}
