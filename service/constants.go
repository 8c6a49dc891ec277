package service

import "time"

const (
	SubmitTimeout        = 30 * time.Second
	MaxResponseBytes     = 1 << 20 // 1 MiB
	DefaultSimulationURL = "https://jsonplaceholder.typicode.com/posts"

	receiptCacheKeyPrefix = "simulacao:"
)
