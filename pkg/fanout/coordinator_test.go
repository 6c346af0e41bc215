package fanout

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 等待条件成立，避免测试依赖固定 sleep
func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("条件在超时前未满足")
}

func TestCoordinator_JoinOrdering(t *testing.T) {
	c := NewCoordinator()

	done := make(chan []interface{}, 1)
	c.Join(func(values []interface{}) {
		done <- values
	}, "first", "second", "third")

	// 故意乱序投递，汇合结果仍须按声明顺序排列
	c.Go("third", func() (interface{}, error) { return 3, nil })
	c.Go("first", func() (interface{}, error) { return 1, nil })
	c.Go("second", func() (interface{}, error) { return 2, nil })

	select {
	case values := <-done:
		require.Equal(t, []interface{}{1, 2, 3}, values)
	case <-time.After(2 * time.Second):
		t.Fatal("汇合组未触发")
	}
}

func TestCoordinator_JoinDeclaredAfterResults(t *testing.T) {
	c := NewCoordinator()
	c.Emit("a", "va")
	c.Emit("b", "vb")

	var got []interface{}
	c.Join(func(values []interface{}) {
		got = values
	}, "a", "b")

	// 名字均已就绪时，Join 在当前 goroutine 上同步执行
	require.Equal(t, []interface{}{"va", "vb"}, got)
}

func TestCoordinator_EmitForSkippedBranch(t *testing.T) {
	c := NewCoordinator()

	done := make(chan struct{})
	c.Join(func(values []interface{}) {
		assert.Nil(t, values[1])
		close(done)
	}, "topics", "liked")

	c.Go("topics", func() (interface{}, error) { return []int{1, 2}, nil })
	// 未登录分支不查关系表，直接投递空结果
	c.Emit("liked", nil)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("汇合组未触发")
	}
}

func TestCoordinator_ContinuationFiresExactlyOnce(t *testing.T) {
	c := NewCoordinator()

	var fired int32
	c.Join(func(values []interface{}) {
		atomic.AddInt32(&fired, 1)
	}, "op")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Emit("op", "v")
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestCoordinator_MultipleGroups(t *testing.T) {
	c := NewCoordinator()

	var respFired, sideFired int32
	c.Join(func(values []interface{}) { atomic.AddInt32(&respFired, 1) }, "primary")
	c.Join(func(values []interface{}) { atomic.AddInt32(&sideFired, 1) }, "primary", "counter")

	c.Emit("primary", true)
	eventually(t, func() bool { return atomic.LoadInt32(&respFired) == 1 })
	// 第二组尚缺 counter，不得提前触发
	require.Equal(t, int32(0), atomic.LoadInt32(&sideFired))

	c.Emit("counter", true)
	eventually(t, func() bool { return atomic.LoadInt32(&sideFired) == 1 })
}

func TestCoordinator_FirstErrorWins(t *testing.T) {
	c := NewCoordinator()

	var gotErr error
	var errCount int32
	c.OnError(func(err error) {
		atomic.AddInt32(&errCount, 1)
		gotErr = err
	})

	var joined int32
	c.Join(func(values []interface{}) { atomic.AddInt32(&joined, 1) }, "a", "b")

	boom := errors.New("store: write failed")
	c.Go("a", func() (interface{}, error) { return nil, boom })

	eventually(t, func() bool { return atomic.LoadInt32(&errCount) == 1 })
	require.Same(t, boom, gotErr)

	// 失败后兄弟操作的结果被丢弃，汇合组不再触发
	c.Emit("b", "late")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&joined))

	// 后续错误不再触发处理函数
	c.Go("c", func() (interface{}, error) { return nil, errors.New("second") })
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&errCount))
}

func TestCoordinator_SiblingsRunToCompletionAfterFailure(t *testing.T) {
	c := NewCoordinator()

	errCh := make(chan error, 1)
	c.OnError(func(err error) { errCh <- err })

	var siblingRan int32
	release := make(chan struct{})

	c.Go("fail", func() (interface{}, error) { return nil, errors.New("boom") })
	c.Go("slow", func() (interface{}, error) {
		<-release
		atomic.AddInt32(&siblingRan, 1)
		return "effect committed", nil
	})

	<-errCh
	// 错误已经上报，慢操作仍会执行完（副作用不回滚，结果被丢弃）
	close(release)
	eventually(t, func() bool { return atomic.LoadInt32(&siblingRan) == 1 })
}

func TestCoordinator_DuplicateEmitIgnored(t *testing.T) {
	c := NewCoordinator()

	var got interface{}
	c.Join(func(values []interface{}) { got = values[0] }, "name")

	c.Emit("name", "first")
	c.Emit("name", "second")

	require.Equal(t, "first", got)
}
