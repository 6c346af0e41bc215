package fanout

import (
	"sync"
)

// Coordinator 管理单个请求内的并发子操作编排。
// - 设计目标: 一次请求会并发发起多个相互独立的读写操作（扇出），
//   而响应只能在其中某个指定子集全部完成后发出一次（汇合），
//   任何一个子操作失败时整个请求只走一次错误路径。
// - 行为约定:
//   1. 每个子操作用唯一的名字注册，最终恰好产生一个结果（值或错误）。
//   2. Join 声明的名字子集全部成功后，延续函数被调用且只调用一次，
//      参数顺序与声明的名字顺序一致；一个 Coordinator 可声明多个汇合组
//      （例如一组用于响应，另一组用于只写不读的旁路计数）。
//   3. 首个错误生效: 第一个上报的错误触发 OnError 注册的处理函数（仅一次），
//      此后所有未触发的汇合组被整体作废，后续到达的结果直接丢弃。
//   4. 没有取消语义: 失败发生时仍在执行中的兄弟操作会继续跑完，
//      其副作用不会被回滚，只是结果不再被读取。因此子操作的写入
//      应尽量幂等。
// - 并发安全: 所有方法可被多 goroutine 并发调用；延续函数在投递最后
//   一个结果的 goroutine 上执行，执行时不持有内部锁。
type Coordinator struct {
	mu      sync.Mutex
	results map[string]interface{}
	groups  []*joinGroup
	failed  bool
	onError func(error)
	errOnce sync.Once
}

// joinGroup 是一次 Join 声明：等待 names 全部就绪后调用 fn。
type joinGroup struct {
	names []string
	fn    func(values []interface{})
	fired bool
}

// NewCoordinator 创建一个请求级的 Coordinator。
// - 每个请求应创建独立实例，不可复用。
func NewCoordinator() *Coordinator {
	return &Coordinator{
		results: make(map[string]interface{}),
	}
}

// OnError 注册请求级错误处理函数。
// - 应在注册任何子操作之前调用；只有第一个错误会触发它。
func (c *Coordinator) OnError(fn func(error)) {
	c.mu.Lock()
	c.onError = fn
	c.mu.Unlock()
}

// Go 注册并立即并发执行一个命名子操作。
// - op 返回的错误会使整个请求走错误路径（首个错误生效）。
// - 同名重复注册的后到结果会被忽略，保证一个名字至多解析一次。
func (c *Coordinator) Go(name string, op func() (interface{}, error)) {
	go func() {
		value, err := op()
		if err != nil {
			c.fail(err)
			return
		}
		c.Emit(name, value)
	}()
}

// Emit 直接投递一个已就绪的命名结果，不产生 goroutine。
// - 用于条件分支被跳过、但下游汇合组仍然等待该名字的场景
//   （例如未登录用户没有"已喜欢关系"可查，直接投递 nil）。
func (c *Coordinator) Emit(name string, value interface{}) {
	c.mu.Lock()
	if c.failed {
		c.mu.Unlock()
		return
	}
	if _, dup := c.results[name]; dup {
		// 名字已解析过，丢弃重复投递
		c.mu.Unlock()
		return
	}
	c.results[name] = value
	ready := c.collectReadyLocked()
	c.mu.Unlock()

	for _, r := range ready {
		r.fn(r.values)
	}
}

// Join 声明一个汇合组: names 全部成功解析后调用 fn，且只调用一次。
// - values 的顺序与 names 一致。
// - 若声明时所有名字已就绪，fn 在当前 goroutine 上立即执行。
func (c *Coordinator) Join(fn func(values []interface{}), names ...string) {
	g := &joinGroup{names: names, fn: fn}

	c.mu.Lock()
	if c.failed {
		c.mu.Unlock()
		return
	}
	c.groups = append(c.groups, g)
	ready := c.collectReadyLocked()
	c.mu.Unlock()

	for _, r := range ready {
		r.fn(r.values)
	}
}

// fail 记录首个错误并作废所有汇合组。
func (c *Coordinator) fail(err error) {
	c.mu.Lock()
	c.failed = true
	handler := c.onError
	c.mu.Unlock()

	c.errOnce.Do(func() {
		if handler != nil {
			handler(err)
		}
	})
}

// firedGroup 是已凑齐、待执行的汇合组快照，在锁外执行。
type firedGroup struct {
	fn     func(values []interface{})
	values []interface{}
}

// collectReadyLocked 找出所有刚凑齐的汇合组并标记为已触发。
// 调用方必须持有 c.mu。
func (c *Coordinator) collectReadyLocked() []firedGroup {
	var ready []firedGroup
	for _, g := range c.groups {
		if g.fired {
			continue
		}
		values := make([]interface{}, 0, len(g.names))
		satisfied := true
		for _, name := range g.names {
			v, ok := c.results[name]
			if !ok {
				satisfied = false
				break
			}
			values = append(values, v)
		}
		if satisfied {
			g.fired = true
			ready = append(ready, firedGroup{fn: g.fn, values: values})
		}
	}
	return ready
}
