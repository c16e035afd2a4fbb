package models

import (
	"sync/atomic"
	"time"

	"gorm.io/gorm"
)

var lastSequence atomic.Int64

// nextSequence 產生嚴格遞增的序號，以納秒時間為基準，同一納秒內遞增
// 用於建立時間相同時的排序依據
func nextSequence() int64 {
	for {
		last := lastSequence.Load()
		next := time.Now().UnixNano()
		if next <= last {
			next = last + 1
		}
		if lastSequence.CompareAndSwap(last, next) {
			return next
		}
	}
}

func (op *Operation) BeforeCreate(*gorm.DB) error {
	if op.Seq == 0 {
		op.Seq = nextSequence()
	}
	return nil
}

func (t *Todo) BeforeCreate(*gorm.DB) error {
	if t.Seq == 0 {
		t.Seq = nextSequence()
	}
	return nil
}
