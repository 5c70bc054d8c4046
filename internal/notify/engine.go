package notify

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"
)

// Event 一次到期的触发投递 / one due trigger delivery
type Event struct {
	Trigger Trigger
	FiredAt time.Time
}

type queueItem struct {
	trigger Trigger
	at      time.Time
}

type triggerQueue []queueItem

func (q triggerQueue) Len() int           { return len(q) }
func (q triggerQueue) Less(i, j int) bool { return q[i].at.Before(q[j].at) }
func (q triggerQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *triggerQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *triggerQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Engine 定时器驱动的每日触发引擎。触发到期后自动重排到次日同一时刻，
// 对应每日重复的语义。消费者不及时读取 out 时事件被丢弃而不是阻塞循环。
// Engine is the timer-driven daily trigger engine. A fired trigger
// automatically reschedules to the same time next day, giving daily-repeat
// semantics. When the consumer falls behind on out, events are dropped
// rather than blocking the loop.
type Engine struct {
	mu      sync.Mutex
	queue   triggerQueue
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	now     func() time.Time
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(triggerQueue, 0),
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		now:    time.Now,
	}
}

// C 到期事件通道，Stop 后关闭 / due events, closed after Stop
func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Arm 清空队列并按给定时刻表重新布防，返回布防条数。每条触发从 now 之后
// 最近的对应时刻开始。
// Arm clears the queue and re-arms the given timetable, returning how many
// entries were armed. Each trigger starts at its nearest occurrence after
// now.
func (e *Engine) Arm(triggers []Trigger) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return 0
	}

	e.queue = e.queue[:0]
	now := e.now()
	for _, tr := range triggers {
		heap.Push(&e.queue, queueItem{trigger: tr, at: nextOccurrence(tr, now)})
	}
	e.signalWakeup()
	return len(triggers)
}

// CancelAll 撤掉所有已布防触发 / disarms everything
func (e *Engine) CancelAll() {
	e.mu.Lock()
	e.queue = e.queue[:0]
	e.signalWakeup()
	e.mu.Unlock()
}

// Armed 当前布防条数 / number of armed triggers
func (e *Engine) Armed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := next.Sub(e.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, ev := range e.popDue(e.now()) {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return time.Time{}, false
	}
	return e.queue[0].at, true
}

// popDue 弹出所有到期项并立即重排到次日 / pops due items and reschedules them for the next day
func (e *Engine) popDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Event, 0)
	for len(e.queue) > 0 {
		if e.queue[0].at.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		out = append(out, Event{Trigger: item.trigger, FiredAt: now})
		heap.Push(&e.queue, queueItem{trigger: item.trigger, at: item.at.AddDate(0, 0, 1)})
	}
	return out
}

// nextOccurrence 今天的对应时刻，已过则次日 / today's slot, or tomorrow if past
func nextOccurrence(tr Trigger, now time.Time) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), tr.Hour, tr.Minute, 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
