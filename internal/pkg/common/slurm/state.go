package slurm

import "github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/slurmrest/model"

// 节点主状态.
const (
	NodeIdle      = "IDLE"
	NodeMixed     = "MIXED"
	NodeAllocated = "ALLOCATED"
	NodeDown      = "DOWN"
	NodeUnknown   = "UNKNOWN"
)

// 节点附加状态.
const (
	NodeFlagDrain         = "DRAIN"
	NodeFlagNotResponding = "NOT_RESPONDING"
)

// 作业状态.
const (
	JobPending = "PENDING"
	JobRunning = "RUNNING"
)

// NodeStates 节点状态直方图. Drain 为附加标记, 与主状态计数不互斥.
type NodeStates struct {
	Idle      int `json:"idle"`
	Mixed     int `json:"mixed"`
	Allocated int `json:"allocated"`
	Down      int `json:"down"`
	Drain     int `json:"drain"`
	Unknown   int `json:"unknown"`
}

// Add 根据节点的主状态(第一个)和附加状态(第二个)计数.
// 主状态不属于 idle/mixed/allocated/down 时, 仅当其为 UNKNOWN 或附加状态为 NOT_RESPONDING 时计为 unknown.
func (s *NodeStates) Add(state model.StringList) {
	primary, secondary := state.First(), state.At(1)
	switch {
	case primary == NodeIdle:
		s.Idle++
	case primary == NodeMixed:
		s.Mixed++
	case primary == NodeAllocated:
		s.Allocated++
	case primary == NodeDown:
		s.Down++
	case primary == NodeUnknown || secondary == NodeFlagNotResponding:
		s.Unknown++
	}
	if secondary == NodeFlagDrain {
		s.Drain++
	}
}

// JobCounts 运行中与排队中的作业数.
type JobCounts struct {
	Running int `json:"running"`
	Pending int `json:"pending"`
}

// CountJobs 按作业主状态统计 RUNNING 与 PENDING, 其他状态忽略.
func CountJobs(jobs model.Jobs) JobCounts {
	var c JobCounts
	for _, j := range jobs {
		switch j.JobState.First() {
		case JobRunning:
			c.Running++
		case JobPending:
			c.Pending++
		}
	}
	return c
}
