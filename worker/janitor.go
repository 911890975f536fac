package worker // import "github.com/bookverse/bookverse/worker"

import (
	"go.uber.org/zap"

	"github.com/bookverse/bookverse/config"
	"github.com/bookverse/bookverse/log"
	"github.com/bookverse/bookverse/model"
	"github.com/bookverse/bookverse/storage"
	"github.com/bookverse/bookverse/store"
)

// JanitorPool runs background cleanup off the request path: sweeping
// orphaned cover files after a book delete and trimming recently-read
// histories after an upsert.
type JanitorPool struct {
	queue chan model.Job
}

func NewJanitorPool(s *store.Store, st storage.Storage, size int) *JanitorPool {
	pool := &JanitorPool{
		queue: make(chan model.Job, size*2),
	}

	for i := 0; i < size; i++ {
		worker := &JanitorWorker{id: i, store: s, storage: st}
		go worker.Run(pool.queue)
	}

	return pool
}

// Implement WorkPool interface
func (p *JanitorPool) Push(job model.Job) {
	p.queue <- job
}

type JanitorWorker struct {
	id      int
	store   *store.Store
	storage storage.Storage
}

func (w *JanitorWorker) Run(c <-chan model.Job) {
	log.Debug("JanitorWorker is running", zap.Int("worker_id", w.id))

	for job := range c {
		log.Debug("Job received by worker",
			zap.Int("worker_id", w.id),
			zap.String("type", job.Type),
			zap.Int32("user_id", job.UserID))

		switch job.Type {
		case model.JobTypeCoverSweep:
			if err := w.storage.RemoveCover(job.Path); err != nil {
				log.Error("Failed to sweep cover",
					zap.String("path", job.Path),
					zap.Error(err))
				continue
			}
		case model.JobTypeRecentPrune:
			if err := w.store.PruneRecentlyRead(job.UserID, config.Opts.RecentReadLimit); err != nil {
				log.Error("Failed to prune recently read",
					zap.Int32("user_id", job.UserID),
					zap.Error(err))
				continue
			}
		default:
			log.Warn("Unknown job type", zap.String("type", job.Type))
		}
	}
}
