package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devjkoo/wayfarer/server/internal/config"
	"github.com/devjkoo/wayfarer/server/internal/logger"
	"github.com/devjkoo/wayfarer/server/internal/sweeper"
	"github.com/devjkoo/wayfarer/server/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// .env 파일 로드 (없으면 환경변수 사용)
	_ = godotenv.Load()

	// 로거 초기화
	if err := logger.Init(); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.GetLogger("main")

	// CLI 인자 파싱
	once := flag.Bool("once", false, "한 번만 실행하고 종료")
	interval := flag.Duration("interval", time.Hour, "반복 실행 주기")
	flag.Parse()

	// 컨텍스트 설정 (시그널 핸들링)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 설정 로드
	cfg := config.Load()

	// Telemetry 초기화 (실패해도 계속 실행)
	meterShutdown, err := telemetry.InitMeter(ctx, "wayfarer-sweeper", cfg.SigNozEndpoint)
	if err != nil {
		log.Warnf("Telemetry 초기화 실패 (계속 실행): %v", err)
	} else {
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := meterShutdown(shutdownCtx); err != nil {
				log.Warnf("Telemetry shutdown 실패: %v", err)
			}
		}()
	}

	// 데이터베이스 연결
	pool, err := newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Errorf("데이터베이스 연결 실패: %v", err)
		os.Exit(1)
	}
	defer pool.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("종료 시그널 수신, 정리 중...")
		cancel()
	}()

	sw := sweeper.New(pool)

	if *once {
		if _, err := sw.Run(ctx); err != nil {
			log.Errorf("정리 실행 중 에러: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Infof("주기 실행 모드 시작 (interval: %s)", *interval)

	// 기동 직후 한 번 실행하고 이후 주기 반복
	if _, err := sw.Run(ctx); err != nil {
		log.Errorf("정리 실행 중 에러: %v", err)
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("종료합니다.")
			return
		case <-ticker.C:
			if _, err := sw.Run(ctx); err != nil {
				log.Errorf("정리 실행 중 에러: %v", err)
			}
		}
	}
}

// newPool 커넥션 풀 생성. 배치 작업이라 작은 풀로 충분하다.
func newPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
