package model

// Node 对应 slurmrestd GET /slurm/{version}/nodes 返回中 nodes 数组的元素.
type Node struct {
	Name            string     `json:"name"`             // 节点名称
	Hostname        string     `json:"hostname"`         // 主机名
	Address         string     `json:"address"`          // 节点地址
	State           StringList `json:"state"`            // 节点状态, 第一个为主状态, 其余为附加标记(DRAIN 等)
	Partitions      StringList `json:"partitions"`       // 所属分区
	CPUs            Int        `json:"cpus"`             // 逻辑 CPU 数
	AllocCPUs       Int        `json:"alloc_cpus"`       // 已分配 CPU 数
	AllocIdleCPUs   Int        `json:"alloc_idle_cpus"`  // 空闲 CPU 数
	Sockets         Int        `json:"sockets"`          // CPU 插槽数
	Cores           Int        `json:"cores"`            // 每插槽核心数
	Threads         Int        `json:"threads"`          // 每核心线程数
	RealMemory      Int        `json:"real_memory"`      // 内存大小, 单位 MB
	AllocMemory     Int        `json:"alloc_memory"`     // 已分配内存, 单位 MB
	FreeMemory      Int        `json:"free_mem"`         // 空闲内存, 单位 MB
	CPULoad         Float      `json:"cpu_load"`         // 负载
	Gres            string     `json:"gres"`             // GPU 等通用资源
	GresUsed        string     `json:"gres_used"`        // 已使用的通用资源
	Features        StringList `json:"features"`         // 特性
	Reason          string     `json:"reason"`           // DRAIN/DOWN 原因
	Architecture    string     `json:"architecture"`     // 架构
	OperatingSystem string     `json:"operating_system"` // 操作系统
	BootTime        Int        `json:"boot_time"`        // 启动时间(unix 秒)
	LastBusy        Int        `json:"last_busy"`        // 最后繁忙时间(unix 秒)
}

type Nodes []*Node

// Clone returns a deep copy of n that shares no slices with it.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.State = cloneStrings(n.State)
	out.Partitions = cloneStrings(n.Partitions)
	out.Features = cloneStrings(n.Features)
	return &out
}

// Clone deep-copies every node. nil entries are dropped.
func (ns Nodes) Clone() Nodes {
	out := make(Nodes, 0, len(ns))
	for _, n := range ns {
		if n != nil {
			out = append(out, n.Clone())
		}
	}
	return out
}

// Names returns the non-empty node names in order, without duplicates.
func (ns Nodes) Names() []string {
	names := make([]string, 0, len(ns))
	seen := make(map[string]struct{}, len(ns))
	for _, n := range ns {
		if n == nil || n.Name == "" {
			continue
		}
		if _, ok := seen[n.Name]; ok {
			continue
		}
		seen[n.Name] = struct{}{}
		names = append(names, n.Name)
	}
	return names
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
