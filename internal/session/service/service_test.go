package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mubymubu/Iqtisad/internal/asset"
	"github.com/Mubymubu/Iqtisad/internal/progress"
	"github.com/Mubymubu/Iqtisad/internal/session"
)

type fakeStore struct {
	mu    sync.Mutex
	saves map[string][]int
	err   error
}

func newFakeStore(err error) *fakeStore {
	return &fakeStore{saves: map[string][]int{}, err: err}
}

func (f *fakeStore) BestStars(_ context.Context, levelID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	best := 0
	for _, s := range f.saves[levelID] {
		if s > best {
			best = s
		}
	}
	return best, f.err
}

func (f *fakeStore) SaveProgress(_ context.Context, levelID string, stars int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saves[levelID] = append(f.saves[levelID], stars)
	return nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) saved(levelID string) []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.saves[levelID]))
	copy(out, f.saves[levelID])
	return out
}

func testConfig() session.Config {
	return session.Config{
		LevelID: "level1",
		Assets: []asset.Config{
			{ID: "AUREX", Name: "AUREX COMPUTING", Price: 100, Volatility: 0.8},
		},
		Duration:        5,
		StartingBalance: decimal.RequireFromString("10000"),
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, cfg session.Config, store *fakeStore) *Service {
	t.Helper()
	sess := session.New(cfg, rand.New(rand.NewSource(1)))
	var st progress.Store
	if store != nil {
		st = store
	}
	svc := New(sess, st, Config{UnitDuration: 10 * time.Millisecond}, quietLogger())
	t.Cleanup(svc.Close)
	return svc
}

func TestCommandsAndSnapshots(t *testing.T) {
	svc := newTestService(t, testConfig(), nil)

	if err := svc.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.Buy("AUREX"); err != nil {
		t.Fatalf("buy: %v", err)
	}

	snap := svc.Snapshot()
	if snap.Phase != session.PhaseTrading {
		t.Errorf("phase = %v, want TRADING", snap.Phase)
	}
	if snap.Assets[0].Quantity != 1 {
		t.Errorf("quantity = %d, want 1", snap.Assets[0].Quantity)
	}
	if snap.TradeCount != 1 {
		t.Errorf("trade count = %d, want 1", snap.TradeCount)
	}
}

func TestSnapshotChannelPublishes(t *testing.T) {
	svc := newTestService(t, testConfig(), nil)

	if err := svc.Start(); err != nil {
		t.Fatal(err)
	}

	select {
	case snap := <-svc.Snapshots():
		if snap.Phase != session.PhaseTrading {
			t.Errorf("published phase = %v", snap.Phase)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot published after start")
	}
}

func TestSessionExpiresAndSaves(t *testing.T) {
	store := newFakeStore(nil)
	svc := newTestService(t, testConfig(), store)

	if err := svc.Start(); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for svc.Snapshot().Phase != session.PhaseDebrief {
		select {
		case <-deadline:
			t.Fatal("session never reached debrief")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// The save fires exactly once, on the transition into debrief.
	time.Sleep(50 * time.Millisecond)
	saves := store.saved("level1")
	if len(saves) != 1 {
		t.Fatalf("expected exactly 1 save, got %v", saves)
	}
}

func TestPersistenceFailureAbsorbed(t *testing.T) {
	store := newFakeStore(errors.New("disk on fire"))
	svc := newTestService(t, testConfig(), store)

	if err := svc.Start(); err != nil {
		t.Fatal(err)
	}
	if err := svc.EndGame(); err != nil {
		t.Fatalf("end game surfaced persistence failure: %v", err)
	}

	snap := svc.Snapshot()
	if snap.Phase != session.PhaseDebrief {
		t.Errorf("phase = %v, want DEBRIEF despite save failure", snap.Phase)
	}
}

func TestRejectionsPassThrough(t *testing.T) {
	svc := newTestService(t, testConfig(), nil)

	if err := svc.Buy("AUREX"); err != session.ErrNotTrading {
		t.Errorf("buy before start: got %v", err)
	}

	cfg := testConfig()
	cfg.StartingBalance = decimal.RequireFromString("1")
	if err := svc.Reset(cfg); err != nil {
		t.Fatal(err)
	}
	if err := svc.Start(); err != nil {
		t.Fatal(err)
	}
	if err := svc.Buy("AUREX"); err != session.ErrInsufficientFunds {
		t.Errorf("got %v, want ErrInsufficientFunds", err)
	}
}

func TestCommandsAfterClose(t *testing.T) {
	svc := newTestService(t, testConfig(), nil)
	svc.Close()

	if err := svc.Start(); err != ErrClosed {
		t.Errorf("got %v, want ErrClosed", err)
	}
}

func TestBestStarsWithoutStore(t *testing.T) {
	svc := newTestService(t, testConfig(), nil)
	if got := svc.BestStars("level1"); got != 0 {
		t.Errorf("stars = %d, want 0 with persistence disabled", got)
	}
}
