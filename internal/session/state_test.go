package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"budgettool/internal/logger"
	"budgettool/internal/remote"
)

func init() {
	logger.Init("test")
}

// fakeSource lets a test control when the initial lookup resolves.
type fakeSource struct {
	mu       sync.Mutex
	listener func(*remote.Session)
	unsubbed bool
	// onSubscribe runs inside OnSessionChange before it returns.
	onSubscribe func()

	release chan struct{}
	session *remote.Session
	err     error
}

func (f *fakeSource) GetSession(ctx context.Context) (*remote.Session, error) {
	if f.release != nil {
		<-f.release
	}
	return f.session, f.err
}

func (f *fakeSource) OnSessionChange(fn func(*remote.Session)) func() {
	f.mu.Lock()
	f.listener = fn
	hook := f.onSubscribe
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return func() {
		f.mu.Lock()
		f.unsubbed = true
		f.mu.Unlock()
	}
}

func (f *fakeSource) emit(sess *remote.Session) {
	f.mu.Lock()
	fn := f.listener
	f.mu.Unlock()
	fn(sess)
}

func TestInit_ExistingSession(t *testing.T) {
	src := &fakeSource{session: &remote.Session{UserID: "u1", Email: "a@example.com"}}
	st := New(src)

	if st.Current().Ready {
		t.Fatal("state must not be ready before Init")
	}

	st.Init(context.Background())

	snap := st.Current()
	if !snap.Ready || !snap.Authenticated || snap.UserID != "u1" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestInit_NoSession(t *testing.T) {
	st := New(&fakeSource{})
	st.Init(context.Background())

	snap := st.Current()
	if !snap.Ready || snap.Authenticated || snap.UserID != "" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestInit_LookupErrorResolvesSignedOut(t *testing.T) {
	st := New(&fakeSource{err: errors.New("network down")})
	st.Init(context.Background())

	snap := st.Current()
	if !snap.Ready || snap.Authenticated {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestWaitReady_BlocksUntilResolved(t *testing.T) {
	src := &fakeSource{release: make(chan struct{}), session: &remote.Session{UserID: "u1"}}
	st := New(src)

	done := make(chan struct{})
	go func() {
		st.Init(context.Background())
		close(done)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := st.WaitReady(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected WaitReady to block, got %v", err)
	}

	close(src.release)
	<-done

	snap, err := st.WaitReady(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", snap.UserID)
	}
}

func TestInit_ChangeDuringLookupWins(t *testing.T) {
	src := &fakeSource{release: make(chan struct{}), session: &remote.Session{UserID: "stale"}}
	st := New(src)

	done := make(chan struct{})
	go func() {
		st.Init(context.Background())
		close(done)
	}()

	// Wait until Init has subscribed.
	for {
		src.mu.Lock()
		subscribed := src.listener != nil
		src.mu.Unlock()
		if subscribed {
			break
		}
		time.Sleep(time.Millisecond)
	}

	src.emit(nil)
	close(src.release)
	<-done

	snap := st.Current()
	if snap.Authenticated || snap.UserID != "" || !snap.Ready {
		t.Errorf("notification should win over stale lookup, got %+v", snap)
	}
}

func TestChangeNotifications_UpdateAndFanOut(t *testing.T) {
	src := &fakeSource{}
	st := New(src)
	st.Init(context.Background())

	var seen []Snapshot
	unsub := st.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	src.emit(&remote.Session{UserID: "u2"})
	src.emit(nil)
	unsub()
	src.emit(&remote.Session{UserID: "u3"})

	if len(seen) != 2 {
		t.Fatalf("got %d notifications, want 2", len(seen))
	}
	if seen[0].UserID != "u2" || !seen[0].Authenticated || !seen[0].Ready {
		t.Errorf("first = %+v", seen[0])
	}
	if seen[1].Authenticated || !seen[1].Ready {
		t.Errorf("second = %+v", seen[1])
	}
	if st.Current().UserID != "u3" {
		t.Errorf("current = %+v", st.Current())
	}
}

func TestClose_Unsubscribes(t *testing.T) {
	src := &fakeSource{}
	st := New(src)
	st.Init(context.Background())
	st.Close()

	if !src.unsubbed {
		t.Error("expected Close to unsubscribe from the source")
	}
}

func TestClose_DuringSubscribeStillUnsubscribes(t *testing.T) {
	src := &fakeSource{}
	st := New(src)
	src.onSubscribe = st.Close

	st.Init(context.Background())

	src.mu.Lock()
	unsubbed := src.unsubbed
	src.mu.Unlock()
	if !unsubbed {
		t.Error("listener registered while closing must be removed")
	}

	st.Init(context.Background())
	if st.Current().Ready {
		t.Error("Init after Close should do nothing")
	}
}
