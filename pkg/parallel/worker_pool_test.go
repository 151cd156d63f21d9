package parallel

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newPool(t *testing.T, workers int) *WorkerPool {
	t.Helper()
	pool, err := NewWorkerPool(workers, nil)
	if err != nil {
		t.Fatalf("NewWorkerPool(%d) failed: %v", workers, err)
	}
	return pool
}

func TestWorkerPoolBasicOperations(t *testing.T) {
	pool := newPool(t, 4)

	executed := false
	if !pool.Submit(func() error {
		executed = true
		return nil
	}) {
		t.Error("Task submission failed")
	}

	if err := pool.Wait(); err != nil {
		t.Errorf("Wait() = %v, want nil", err)
	}
	if !executed {
		t.Error("Task was not executed")
	}
}

func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool := newPool(t, 10)

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() error {
				atomic.AddInt64(&counter, 1)
				return nil
			})
		}()
	}
	wg.Wait()

	if err := pool.Wait(); err != nil {
		t.Errorf("Wait() = %v, want nil", err)
	}
	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool := newPool(t, 4)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					pool.Submit(func() error {
						time.Sleep(100 * time.Microsecond)
						return nil
					})
				}
			}()
		}

		time.Sleep(time.Millisecond)
		pool.Close()
		wg.Wait()
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := newPool(t, 2)
	pool.Close()

	if pool.Submit(func() error { return nil }) {
		t.Error("Submit after Close should return false")
	}
}

func TestWorkerPoolMultipleClose(t *testing.T) {
	pool := newPool(t, 2)
	pool.Close()
	pool.Close()
	if err := pool.Wait(); err != nil {
		t.Errorf("Wait() after Close = %v, want nil", err)
	}
}

func TestWorkerPoolCollectsErrors(t *testing.T) {
	pool := newPool(t, 3)
	errA := errors.New("first failure")
	errB := errors.New("second failure")

	pool.Submit(func() error { return errA })
	pool.Submit(func() error { return nil })
	pool.Submit(func() error { return errB })

	err := pool.Wait()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Wait() = %v, want both task errors", err)
	}
}

func TestWorkerPoolWithPanic(t *testing.T) {
	pool := newPool(t, 1)

	var after atomic.Bool
	pool.Submit(func() error { panic("rotor jammed") })
	pool.Submit(func() error {
		after.Store(true)
		return nil
	})

	err := pool.Wait()
	if err == nil || !strings.Contains(err.Error(), "rotor jammed") {
		t.Errorf("Wait() = %v, want the recovered panic", err)
	}
	if !after.Load() {
		t.Error("Worker did not survive the panic")
	}
}

func TestWorkerPoolLimits(t *testing.T) {
	if _, err := NewWorkerPool(MaxWorkers+1, nil); !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("NewWorkerPool(MaxWorkers+1) error = %v, want ErrTooManyWorkers", err)
	}

	pool := newPool(t, 0)
	if pool.workers != 1 {
		t.Errorf("workers = %d, want 1 for a non-positive count", pool.workers)
	}
	pool.Close()
}

func BenchmarkWorkerPoolThroughput(b *testing.B) {
	pool, err := NewWorkerPool(8, nil)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Submit(func() error { return nil })
	}
	if err := pool.Wait(); err != nil {
		b.Fatal(err)
	}
}
