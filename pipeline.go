package sinew

import "sync"

// task fans fn out over data in contiguous chunks, one goroutine per worker.
// A single worker runs inline without goroutine overhead.
func task[T any](workersCount int, data []T, fn func(data T)) {
	dataSize := len(data)
	if dataSize == 0 {
		return
	}

	if workersCount <= 1 || dataSize == 1 {
		for _, item := range data {
			fn(item)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start := workerID * chunkSize
		if start >= dataSize {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(start, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}
