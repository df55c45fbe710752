package jobs

import (
	"context"
	"database/sql"
	"time"

	"github.com/Spok95/school-club-portal/internal/metrics"
)

// DBPing — фоновая проверка доступности базы с записью латентности
// в гистограмму. Ядро портала фоновых задач не имеет, это чисто
// эксплуатационная проверка.
func DBPing(database *sql.DB) Job {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		t0 := time.Now()
		if err := database.PingContext(ctx); err != nil {
			return err
		}
		metrics.ObserveDBPing(time.Since(t0))
		return nil
	}
}
