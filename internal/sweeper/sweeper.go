package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/devjkoo/wayfarer/server/internal/logger"
	"github.com/devjkoo/wayfarer/server/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sweeper 만료된 추천 캐시 정리
//
// 읽기 경로는 expires_at 조건으로 만료 행을 걸러내므로 정리가 밀려도
// 정합성에는 영향이 없다. 이 배치는 테이블 크기만 관리한다.
type Sweeper struct {
	pool *pgxpool.Pool
}

// New 새로운 Sweeper 생성
func New(pool *pgxpool.Pool) *Sweeper {
	return &Sweeper{pool: pool}
}

// Run 만료된 캐시 엔트리 삭제 실행
// 삭제 조건: expires_at <= NOW()
func (s *Sweeper) Run(ctx context.Context) (int64, error) {
	log := logger.GetLogger("sweeper")
	startTime := time.Now()

	if telemetry.SweepRunsTotal != nil {
		telemetry.SweepRunsTotal.Add(ctx, 1)
	}

	log.Info("===== 만료 추천 캐시 정리 시작 =====")

	// 삭제 대상 카운트
	countQuery := `
		SELECT COUNT(*)
		FROM suggestion_cache
		WHERE expires_at <= NOW()
	`

	var count int64
	if err := s.pool.QueryRow(ctx, countQuery).Scan(&count); err != nil {
		if telemetry.SweepErrorsTotal != nil {
			telemetry.SweepErrorsTotal.Add(ctx, 1)
		}
		return 0, fmt.Errorf("삭제 대상 카운트 실패: %w", err)
	}

	if count == 0 {
		log.Info("삭제할 만료 엔트리가 없습니다.")
		if telemetry.SweepDuration != nil {
			telemetry.SweepDuration.Record(ctx, time.Since(startTime).Seconds())
		}
		return 0, nil
	}

	log.Infof("삭제 대상: %d개 엔트리", count)

	deleteQuery := `
		DELETE FROM suggestion_cache
		WHERE expires_at <= NOW()
	`

	result, err := s.pool.Exec(ctx, deleteQuery)
	if err != nil {
		if telemetry.SweepErrorsTotal != nil {
			telemetry.SweepErrorsTotal.Add(ctx, 1)
		}
		return 0, fmt.Errorf("만료 엔트리 삭제 실패: %w", err)
	}

	rowsAffected := result.RowsAffected()
	log.Infof("삭제 완료: %d개 엔트리 정리됨", rowsAffected)

	if telemetry.SweepDeletedTotal != nil {
		telemetry.SweepDeletedTotal.Add(ctx, rowsAffected)
	}
	if telemetry.SweepDuration != nil {
		telemetry.SweepDuration.Record(ctx, time.Since(startTime).Seconds())
	}

	log.Info("===== 만료 추천 캐시 정리 종료 =====")
	return rowsAffected, nil
}
