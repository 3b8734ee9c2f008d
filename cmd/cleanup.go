package main

// cleanup 退出前需要执行的关闭操作, 按注册的逆序执行, 每个只执行一次.
type cleanup struct {
	fns []func()
}

func (c *cleanup) add(fn func()) { c.fns = append(c.fns, fn) }

func (c *cleanup) run() {
	for i := len(c.fns) - 1; i >= 0; i-- {
		c.fns[i]()
	}
	c.fns = nil
}
