package model

// Jobs is a slice of Job.
type Jobs []Job

// Job 对应 slurmrestd GET /slurm/{version}/jobs 返回中 jobs 数组的元素, 仅保留聚合所需字段.
type Job struct {
	JobID      Int        `json:"job_id"`      // 作业 ID
	Name       string     `json:"name"`        // 作业名
	UserName   string     `json:"user_name"`   // 用户(v0.0.39+)
	User       string     `json:"user"`        // 用户(旧版本)
	Account    string     `json:"account"`     // 账户
	Partition  string     `json:"partition"`   // 分区
	JobState   StringList `json:"job_state"`   // 作业状态
	Nodes      string     `json:"nodes"`       // 节点列表
	CPUs       Int        `json:"cpus"`        // 请求 CPU 数
	NodeCount  Int        `json:"node_count"`  // 节点数
	SubmitTime Int        `json:"submit_time"` // 提交时间(unix 秒)
	StartTime  Int        `json:"start_time"`  // 开始时间(unix 秒)
}
