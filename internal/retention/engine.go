// Package retention reclassifies aged daily records to keep storage under its
// ceiling: year-old submitted records are purged into a rolling counter, newer
// submitted ones are compacted to their score summary.
package retention

import (
	"sort"
	"time"

	"qac/internal/kvstore"
	"qac/internal/quiz"
)

// Engine 对所有日期键记录执行保留清扫
// Engine runs the retention sweep over all date-keyed records
type Engine struct {
	store  *kvstore.Store
	logger *quiz.Logger

	sweeping bool
}

// New 创建保留引擎 / New creates a retention engine
func New(store *kvstore.Store, logger *quiz.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// SweepResult 单次清扫的统计 / SweepResult summarizes one sweep pass
type SweepResult struct {
	Purged     int
	Simplified int
	Skipped    int
}

// Sweep 执行一次完整清扫。日期键按从旧到新处理，先释放最旧的空间；
// 超过一年的已提交记录删除并累加 completed_count，一年内的已提交记录简化；
// 未提交记录一律保留，反序列化失败的记录跳过。清扫自身的写入会再次触发
// 空间检查，重入直接返回，保证每条清除记录只累加一次。
// Sweep runs one full pass. Date keys are processed oldest first so a single
// pass frees the maximum aged space. Submitted records older than one year are
// deleted and counted into completed_count; submitted records within the year
// are simplified to their score summary. Unsubmitted records are never touched
// and records that fail to deserialize are skipped, not deleted.
//
// The sweep's own counter writes re-run the store's space check, which can
// call back into Sweep through the low-space hook before the record is
// removed. A re-entered sweep returns immediately so each purged record bumps
// completed_count exactly once.
func (e *Engine) Sweep(now time.Time) SweepResult {
	var result SweepResult
	if e.sweeping {
		return result
	}
	e.sweeping = true
	defer func() { e.sweeping = false }()

	keys, err := e.store.Keys()
	if err != nil {
		e.logger.Logf("sweep: list keys: %v", err)
		return result
	}

	type dated struct {
		key  string
		date time.Time
	}
	var records []dated
	for _, key := range keys {
		date, ok := quiz.ParseDateKey(key)
		if !ok {
			continue
		}
		records = append(records, dated{key: key, date: date})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].date.Before(records[j].date) })

	cutoff := now.AddDate(-1, 0, 0)

	for _, rec := range records {
		var record quiz.DailyRecord
		if !e.store.Get(rec.key, &record) {
			result.Skipped++
			continue
		}

		if rec.date.Before(cutoff) {
			if !record.Submitted {
				continue
			}
			var count int
			e.store.Get(quiz.KeyCompletedCount, &count)
			if err := e.store.Set(quiz.KeyCompletedCount, count+1); err != nil {
				e.logger.Logf("sweep: bump completed_count: %v", err)
				continue
			}
			e.store.Remove(rec.key)
			result.Purged++
			e.logger.Logf("purged aged record: %s", rec.key)
			continue
		}

		if record.Submitted && !record.Simplified {
			if err := e.store.Set(rec.key, record.Simplify()); err != nil {
				e.logger.Logf("sweep: simplify %s: %v", rec.key, err)
				continue
			}
			result.Simplified++
			e.logger.Logf("simplified record: %s", rec.key)
		}
	}

	return result
}

// CompletedTotal 展示用完成总数：持久计数器只记录已清除的完成任务，
// 总数始终由计数器加实时扫描重新推导，避免重复计数。
// CompletedTotal is the displayed completed total: the persisted counter
// tracks purged completions only; the total is always re-derived as counter
// plus a live scan of submitted records, so nothing is ever double counted.
func (e *Engine) CompletedTotal() int {
	var purged int
	e.store.Get(quiz.KeyCompletedCount, &purged)

	keys, err := e.store.Keys()
	if err != nil {
		e.logger.Logf("completed total: list keys: %v", err)
		return purged
	}

	live := 0
	for _, key := range keys {
		if _, ok := quiz.ParseDateKey(key); !ok {
			continue
		}
		var record quiz.DailyRecord
		if !e.store.Get(key, &record) {
			continue
		}
		if record.Submitted {
			live++
		}
	}
	return purged + live
}
